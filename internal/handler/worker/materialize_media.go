package worker

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/port"
	"github.com/talkora/chat-media-go/internal/task"
	"github.com/talkora/chat-media-go/internal/usecase/media"
)

// MaterializeMediaHandler handles a materialize-media task.
// It converts the incoming task payload to the input expected by the
// materializer service and delegates the call. Lock contention is not a
// failure: another worker already owns the fetch, so the task is dropped.
func MaterializeMediaHandler(ctx context.Context, p task.MaterializeMediaPayload, svc port.MediaMaterializer) error {
	id, err := uuid.Parse(p.MessageID)
	if err != nil {
		log.Printf("❌  Invalid message ID %q: %v", p.MessageID, err)
		return err
	}

	in := port.MaterializeInput{
		MessageID:      db.UUID(id),
		MediaID:        p.MediaID,
		ConversationID: p.ConversationID,
	}
	if _, err := svc.MaterializeMedia(ctx, in); err != nil {
		if errors.Is(err, media.ErrFetchInProgress) {
			log.Printf("⏳  Fetch already in progress for message #%s; skipping", id)
			return nil
		}
		log.Printf("❌  Failed to materialize media for message #%s: %v", id, err)
		return err
	}

	log.Printf("✅  Successfully materialized media for message #%s", id)
	return nil
}
