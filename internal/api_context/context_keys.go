package api_context

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
)

type ctxKey string

const (
	MessageIDKey  ctxKey = "messageID"
	BusinessIDKey ctxKey = "businessID"
)

func MessageIDFromContext(ctx context.Context) (db.UUID, bool) {
	id, ok := ctx.Value(MessageIDKey).(db.UUID)
	return id, ok
}

func BusinessIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(BusinessIDKey).(string)
	return id, ok
}
