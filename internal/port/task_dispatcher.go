package port

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
)

// TaskDispatcher enqueues background work for the worker process.
type TaskDispatcher interface {
	// EnqueueMaterializeMedia schedules an asynchronous materialization of a
	// row, used to backfill durability for degraded outbound sends and to
	// retry reclaimed rows.
	EnqueueMaterializeMedia(ctx context.Context, messageID db.UUID, mediaID, conversationID string) error
}
