package mock

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/port"
)

// TaskDispatcher implements the dispatcher interface for tests.
type TaskDispatcher struct {
	// captured inputs
	MessageID      db.UUID
	MediaID        string
	ConversationID string

	// errors
	EnqueueErr error

	// call flags
	EnqueueCalled bool
	EnqueueCalls  int
}

var _ port.TaskDispatcher = (*TaskDispatcher)(nil)

func (m *TaskDispatcher) EnqueueMaterializeMedia(ctx context.Context, messageID db.UUID, mediaID, conversationID string) error {
	m.EnqueueCalled = true
	m.EnqueueCalls++
	m.MessageID = messageID
	m.MediaID = mediaID
	m.ConversationID = conversationID
	return m.EnqueueErr
}
