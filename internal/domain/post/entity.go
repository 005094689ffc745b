package post

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileURLPrefix is the public path under which blobs are referenced.
const FileURLPrefix = "/files/"

// Post represents the posts table
type Post struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	FileID      string    `gorm:"column:file_id" json:"fileId,omitempty"`
	FileURL     string    `gorm:"column:file_url" json:"fileUrl"`
	AddedDate   time.Time `json:"addedDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Post) TableName() string {
	return "posts"
}

// BlobID returns the id of the blob this post references, or "" when it has none.
// Rows written before file_id existed only carry the URL.
func (p Post) BlobID() string {
	if p.FileID != "" {
		return p.FileID
	}
	return BlobIDFromFileURL(p.FileURL)
}

// FileURLFor builds the public reference for a blob id.
func FileURLFor(blobID string) string {
	return FileURLPrefix + blobID
}

// BlobIDFromFileURL extracts the blob id from a "/files/{id}" reference.
func BlobIDFromFileURL(fileURL string) string {
	parts := strings.Split(fileURL, FileURLPrefix)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// FileView is the embedded file payload returned alongside a post on listing.
type FileView struct {
	ID          string `json:"_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
	URL         string `json:"url"`
}

// View is a post joined with its blob. File is nil when the blob could not be fetched.
type View struct {
	Post
	File *FileView `json:"file,omitempty"`
}

// DeleteOutcome names how a delete finished.
type DeleteOutcome string

const (
	OutcomeDeleted             DeleteOutcome = "deleted"
	OutcomeDeletedOrphanedBlob DeleteOutcome = "deleted_orphaned_blob"
	OutcomeDeletedWithoutBlob  DeleteOutcome = "deleted_without_blob"
)

type DeleteResult struct {
	PostID  uuid.UUID
	FileID  string
	Outcome DeleteOutcome
	Message string
}
