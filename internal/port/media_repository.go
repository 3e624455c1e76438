package port

import (
	"context"
	"time"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/model"
)

// MediaRepository defines persistence operations for media records.
type MediaRepository interface {
	Create(ctx context.Context, rec *model.MediaRecord) error
	GetByMessageID(ctx context.Context, messageID db.UUID) (*model.MediaRecord, error)
	Delete(ctx context.Context, messageID db.UUID) error

	// AcquireFetch attempts the single atomic conditional update that moves a
	// row into fetching. It succeeds iff the row is pending or failed, or is
	// fetching with a lease older than leaseTTL. Returns true iff exactly one
	// row was modified; correctness comes from the datastore's atomicity, not
	// from any in-memory mutex.
	AcquireFetch(ctx context.Context, messageID db.UUID, leaseTTL time.Duration) (bool, error)

	// ReleaseFetch persists the outcome of an acquired fetch: the record's
	// FetchStatus must be ready or failed and the update only applies while
	// the row is still fetching.
	ReleaseFetch(ctx context.Context, rec *model.MediaRecord) error

	// ListStaleFetching returns message ids stuck in fetching since before
	// the given instant (crashed or hung workers).
	ListStaleFetching(ctx context.Context, before time.Time) ([]db.UUID, error)
}
