package blob

import "time"

// Blob is a stored binary attachment.
type Blob struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
	UploadDate  time.Time
}

// Upload is what callers hand to a blob store to persist.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
