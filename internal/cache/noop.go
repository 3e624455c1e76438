package cache

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/port"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetMaterialized(ctx context.Context, messageID db.UUID) ([]byte, error) {
	return nil, nil // always cache miss
}

func (n *NoopCache) SetMaterialized(ctx context.Context, messageID db.UUID, data []byte) {
}

func (n *NoopCache) DeleteMaterialized(ctx context.Context, messageID db.UUID) error {
	return nil
}
