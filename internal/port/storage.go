package port

import (
	"context"
	"io"
)

// FileInfo represents metadata about a stored object.
type FileInfo struct {
	SizeBytes   int64
	ContentType string
}

// SaveFileOptions carries the headers and identifying metadata attached to
// an uploaded object so it is self-describing without a secondary index.
type SaveFileOptions struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// Storage defines object store operations against a single bucket.
type Storage interface {
	// SaveFile is safe to repeat for the same key: keys encode the message
	// id, and content for a given message never changes.
	SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts SaveFileOptions) error
	FileExists(ctx context.Context, fileKey string) (bool, error)
	StatFile(ctx context.Context, fileKey string) (FileInfo, error)
	RemoveFile(ctx context.Context, fileKey string) error

	// PublicURL returns the durable, publicly addressable URL for a key.
	PublicURL(fileKey string) string

	// Provider names the backing store, recorded on rows it served.
	Provider() string
}
