package port

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
)

// Cache stores the materialized output of ready rows. Entries are immutable
// once set, mirroring the ready state of the underlying record.
type Cache interface {
	// GetMaterialized returns the cached JSON payload, or nil on a miss.
	GetMaterialized(ctx context.Context, messageID db.UUID) ([]byte, error)
	SetMaterialized(ctx context.Context, messageID db.UUID, data []byte)
	DeleteMaterialized(ctx context.Context, messageID db.UUID) error
}
