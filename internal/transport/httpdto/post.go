package httpdto

import "mediapost/internal/domain/post"

// PostSummary is the public list projection of a post.
type PostSummary struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FileURL     string `json:"fileUrl"`
}

func NewPostSummaries(views []post.View) []PostSummary {
	out := make([]PostSummary, 0, len(views))
	for _, v := range views {
		out = append(out, PostSummary{
			ID:          v.ID.String(),
			Name:        v.Name,
			Description: v.Description,
			FileURL:     v.FileURL,
		})
	}
	return out
}
