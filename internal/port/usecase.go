package port

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
)

// UUIDGen mints message identifiers; injected so tests control minting.
type UUIDGen func() db.UUID

// MediaMaterializer converts a transient provider reference into a durable,
// publicly addressable stored object.
type MediaMaterializer interface {
	MaterializeMedia(ctx context.Context, in MaterializeInput) (*MaterializeOutput, error)
}

type MaterializeInput struct {
	MessageID      db.UUID
	MediaID        string
	ConversationID string
}

type MaterializeOutput struct {
	URL       string `json:"url"`
	Hash      string `json:"hash"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
	Cached    bool   `json:"cached"`
}

// MediaUploader validates a user-supplied file and dual-writes it to the
// object store (degradable) and the provider's delivery endpoint (fatal).
type MediaUploader interface {
	UploadMedia(ctx context.Context, in UploadInput) (*UploadOutput, error)
}

type UploadInput struct {
	Data           []byte
	Filename       string
	MimeType       string
	ConversationID string
	BusinessID     string
}

type UploadOutput struct {
	MessageID       db.UUID `json:"message_id"`
	PersistentURL   *string `json:"persistent_url"`
	ProviderMediaID string  `json:"provider_media_id"`
	MimeType        string  `json:"mime_type"`
	SizeBytes       int64   `json:"size_bytes"`
	StorageProvider *string `json:"storage_provider"`
}

// MediaDeleter removes a media row, its stored object and its cache entry.
type MediaDeleter interface {
	DeleteMedia(ctx context.Context, messageID db.UUID) error
}

// StaleReclaimer sweeps rows whose fetching lease expired and re-queues them.
type StaleReclaimer interface {
	ReclaimStale(ctx context.Context) error
}
