package media

import (
	"context"
	"fmt"
	"time"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/model"
	"github.com/talkora/chat-media-go/internal/port"
)

// LockCoordinator is the only concurrency primitive in the pipeline. The
// mutual-exclusion guarantee comes from the datastore's atomic conditional
// update, so it holds across any number of processes.
type LockCoordinator struct {
	repo     port.MediaRepository
	leaseTTL time.Duration
}

func NewLockCoordinator(repo port.MediaRepository, leaseTTL time.Duration) *LockCoordinator {
	if leaseTTL <= 0 {
		leaseTTL = DefaultFetchLeaseTTL
	}
	return &LockCoordinator{repo: repo, leaseTTL: leaseTTL}
}

// LeaseTTL exposes the configured lease duration for freshness checks.
func (l *LockCoordinator) LeaseTTL() time.Duration {
	return l.leaseTTL
}

// Acquire attempts to move the row into fetching. True means this caller won
// the race and owns the fetch; false means someone else is already fetching
// and the caller must back off instead of polling server-side.
func (l *LockCoordinator) Acquire(ctx context.Context, messageID db.UUID) (bool, error) {
	return l.repo.AcquireFetch(ctx, messageID, l.leaseTTL)
}

// ReleaseReady completes a successful acquisition: the record's payload
// fields must already be populated.
func (l *LockCoordinator) ReleaseReady(ctx context.Context, rec *model.MediaRecord) error {
	rec.FetchStatus = model.FetchStatusReady
	rec.FailureMessage = nil
	if err := l.repo.ReleaseFetch(ctx, rec); err != nil {
		return fmt.Errorf("releasing fetch to ready for message #%s: %w", rec.MessageID, err)
	}
	return nil
}

// ReleaseFailed completes a failed acquisition, leaving the row retryable.
func (l *LockCoordinator) ReleaseFailed(ctx context.Context, rec *model.MediaRecord, reason string) error {
	rec.FetchStatus = model.FetchStatusFailed
	rec.FailureMessage = &reason
	if err := l.repo.ReleaseFetch(ctx, rec); err != nil {
		return fmt.Errorf("releasing fetch to failed for message #%s: %w", rec.MessageID, err)
	}
	return nil
}
