package mock

import (
	"context"
	"time"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/model"
	"github.com/talkora/chat-media-go/internal/port"
)

// MediaRepository implements the repository interface for tests.
type MediaRepository struct {
	// stored values
	RecordOut     *model.MediaRecord
	AcquireOut    bool
	StaleIDsOut   []db.UUID
	CreatedRecord *model.MediaRecord

	// captured inputs
	AcquiredID       db.UUID
	AcquiredLeaseTTL time.Duration
	ReleasedRecord   *model.MediaRecord
	DeletedID        db.UUID

	// errors
	CreateErr    error
	GetErr       error
	DeleteErr    error
	AcquireErr   error
	ReleaseErr   error
	ListStaleErr error

	// call flags
	CreateCalled    bool
	GetCalled       bool
	DeleteCalled    bool
	AcquireCalled   bool
	ReleaseCalled   bool
	ReleaseCalls    int
	ListStaleCalled bool
}

var _ port.MediaRepository = (*MediaRepository)(nil)

func (m *MediaRepository) Create(ctx context.Context, rec *model.MediaRecord) error {
	m.CreateCalled = true
	m.CreatedRecord = rec
	return m.CreateErr
}

func (m *MediaRepository) GetByMessageID(ctx context.Context, messageID db.UUID) (*model.MediaRecord, error) {
	m.GetCalled = true
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.RecordOut, nil
}

func (m *MediaRepository) Delete(ctx context.Context, messageID db.UUID) error {
	m.DeleteCalled = true
	m.DeletedID = messageID
	return m.DeleteErr
}

func (m *MediaRepository) AcquireFetch(ctx context.Context, messageID db.UUID, leaseTTL time.Duration) (bool, error) {
	m.AcquireCalled = true
	m.AcquiredID = messageID
	m.AcquiredLeaseTTL = leaseTTL
	if m.AcquireErr != nil {
		return false, m.AcquireErr
	}
	return m.AcquireOut, nil
}

func (m *MediaRepository) ReleaseFetch(ctx context.Context, rec *model.MediaRecord) error {
	m.ReleaseCalled = true
	m.ReleaseCalls++
	m.ReleasedRecord = rec
	return m.ReleaseErr
}

func (m *MediaRepository) ListStaleFetching(ctx context.Context, before time.Time) ([]db.UUID, error) {
	m.ListStaleCalled = true
	if m.ListStaleErr != nil {
		return nil, m.ListStaleErr
	}
	return m.StaleIDsOut, nil
}
