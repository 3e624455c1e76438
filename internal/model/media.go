package model

import (
	"time"

	"github.com/talkora/chat-media-go/internal/db"
)

// FetchStatus tracks where a media record sits in its acquisition lifecycle.
// Legal transitions: pending|failed -> fetching -> ready|failed. A row never
// leaves ready.
type FetchStatus string

const (
	FetchStatusPending  FetchStatus = "pending"
	FetchStatusFetching FetchStatus = "fetching"
	FetchStatusReady    FetchStatus = "ready"
	FetchStatusFailed   FetchStatus = "failed"
)

// MediaRecord is one row of message_media: a message that carries, or will
// carry, a media attachment. MessageID is minted once per message and never
// reassigned; it is the dedup, lock and storage-addressing key.
//
// MediaKey, once computed, is a pure function of identifiers fixed at row
// creation and always contains MessageID as a substring.
type MediaRecord struct {
	MessageID        db.UUID     `json:"message_id"`
	ConversationID   string      `json:"conversation_id"`
	BusinessID       string      `json:"business_id"`
	MediaID          *string     `json:"media_id"`
	MediaKey         *string     `json:"media_key"`
	MediaURL         *string     `json:"media_url"`
	MediaHash        *string     `json:"media_hash"`
	MediaSize        *int64      `json:"media_size"`
	MediaMime        *string     `json:"media_mime"`
	OriginalFilename *string     `json:"original_filename"`
	StorageProvider  *string     `json:"storage_provider"`
	FetchStatus      FetchStatus `json:"fetch_status"`
	FetchStartedAt   *time.Time  `json:"fetch_started_at"`
	FailureMessage   *string     `json:"failure_message"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// IsReady reports whether the record already points at a durably stored
// object. Readers that observe ready are guaranteed the object exists at
// MediaKey.
func (m *MediaRecord) IsReady() bool {
	return m.FetchStatus == FetchStatusReady
}
