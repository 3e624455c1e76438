package mock

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/port"
)

// Cache implements the cache interface for tests.
type Cache struct {
	// stored values
	GetOut []byte

	// captured inputs
	SetData []byte

	// errors
	GetErr    error
	DeleteErr error

	// call flags
	GetCalled    bool
	SetCalled    bool
	DeleteCalled bool
}

var _ port.Cache = (*Cache)(nil)

func (m *Cache) GetMaterialized(ctx context.Context, messageID db.UUID) ([]byte, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.GetOut, nil
}

func (m *Cache) SetMaterialized(ctx context.Context, messageID db.UUID, data []byte) {
	m.SetCalled = true
	m.SetData = data
}

func (m *Cache) DeleteMaterialized(ctx context.Context, messageID db.UUID) error {
	m.DeleteCalled = true
	return m.DeleteErr
}
