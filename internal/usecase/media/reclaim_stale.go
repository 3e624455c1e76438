package media

import (
	"context"
	"fmt"
	"time"

	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/port"
)

type staleReclaimerSrv struct {
	repo       port.MediaRepository
	dispatcher port.TaskDispatcher
	lock       *LockCoordinator
}

// compile-time check: *staleReclaimerSrv must satisfy port.StaleReclaimer
var _ port.StaleReclaimer = (*staleReclaimerSrv)(nil)

// NewStaleReclaimer builds the sweep that rescues rows a crashed worker left
// stuck in fetching past their lease.
func NewStaleReclaimer(repo port.MediaRepository, dispatcher port.TaskDispatcher, lock *LockCoordinator) port.StaleReclaimer {
	return &staleReclaimerSrv{repo: repo, dispatcher: dispatcher, lock: lock}
}

const reclaimReason = "fetch lease expired"

// ReclaimStale marks every expired fetching row failed and re-queues a
// materialization for those that still carry a provider media id.
func (s *staleReclaimerSrv) ReclaimStale(ctx context.Context) error {
	before := time.Now().UTC().Add(-s.lock.LeaseTTL())

	ids, err := s.repo.ListStaleFetching(ctx, before)
	if err != nil {
		return fmt.Errorf("listing stale fetching rows: %w", err)
	}
	if len(ids) == 0 {
		logger.Debug(ctx, "no stale fetching rows to reclaim")
		return nil
	}

	reclaimed := 0
	for _, id := range ids {
		rec, err := s.repo.GetByMessageID(ctx, id)
		if err != nil {
			logger.Warnf(ctx, "could not load stale record #%s: %v", id, err)
			continue
		}

		if err := s.lock.ReleaseFailed(ctx, rec, reclaimReason); err != nil {
			// Another worker may have picked the row up again; that is fine.
			logger.Warnf(ctx, "could not reclaim record #%s: %v", id, err)
			continue
		}
		reclaimed++

		if rec.MediaID != nil {
			if err := s.dispatcher.EnqueueMaterializeMedia(ctx, rec.MessageID, *rec.MediaID, rec.ConversationID); err != nil {
				logger.Warnf(ctx, "could not re-enqueue materialization for #%s: %v", id, err)
			}
		}
	}

	logger.Infof(ctx, "✅  Reclaimed %d/%d stale fetching rows", reclaimed, len(ids))
	return nil
}
