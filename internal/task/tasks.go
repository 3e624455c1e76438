package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeMaterializeMedia = "media:materialize"

type MaterializeMediaPayload struct {
	MessageID      string `json:"message_id"`
	MediaID        string `json:"media_id"`
	ConversationID string `json:"conversation_id"`
}

// NewMaterializeMediaTask creates an Asynq task that materializes a media
// row in the background (storage backfill and reclaimed retries).
func NewMaterializeMediaTask(messageID, mediaID, conversationID string) (*asynq.Task, error) {
	p := MaterializeMediaPayload{
		MessageID:      messageID,
		MediaID:        mediaID,
		ConversationID: conversationID,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal materialize-media payload: %w", err)
	}
	return asynq.NewTask(TypeMaterializeMedia, data), nil
}

// ParseMaterializeMediaPayload parses the task payload to MaterializeMediaPayload.
func ParseMaterializeMediaPayload(t *asynq.Task) (MaterializeMediaPayload, error) {
	var p MaterializeMediaPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return MaterializeMediaPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
