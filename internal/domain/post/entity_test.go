package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlobIDFromFileURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/files/f1", "f1"},
		{"/files/6526b6f0c1a2b3c4d5e6f708", "6526b6f0c1a2b3c4d5e6f708"},
		{"https://cdn.example.com/files/abc", "abc"},
		{"/files/", ""},
		{"", ""},
		{"/uploads/abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BlobIDFromFileURL(tt.in), tt.in)
	}
}

func TestFileURLRoundTrip(t *testing.T) {
	url := FileURLFor("f1")
	assert.Equal(t, "/files/f1", url)
	assert.Equal(t, "f1", BlobIDFromFileURL(url))
}

func TestBlobIDPrefersStoredColumn(t *testing.T) {
	assert.Equal(t, "stored", Post{FileID: "stored", FileURL: "/files/other"}.BlobID())
	assert.Equal(t, "legacy", Post{FileURL: "/files/legacy"}.BlobID())
	assert.Equal(t, "", Post{}.BlobID())
}
