package media

import (
	"context"
	"database/sql"
	"errors"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/port"
)

type deleteMediaSrv struct {
	repo  port.MediaRepository
	cache port.Cache
	strg  port.Storage
}

// compile-time check: *deleteMediaSrv must satisfy port.MediaDeleter
var _ port.MediaDeleter = (*deleteMediaSrv)(nil)

// NewMediaDeleter constructs the administrative deletion service.
func NewMediaDeleter(repo port.MediaRepository, cache port.Cache, strg port.Storage) port.MediaDeleter {
	return &deleteMediaSrv{repo: repo, cache: cache, strg: strg}
}

// DeleteMedia removes the stored object, deletes the row and clears the
// cache entry. This is the administrative action the pipeline itself never
// performs.
func (s *deleteMediaSrv) DeleteMedia(ctx context.Context, messageID db.UUID) error {
	rec, err := s.repo.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMediaNotFound
		}
		return err
	}

	if rec.MediaKey != nil && s.strg != nil {
		if err := s.strg.RemoveFile(ctx, *rec.MediaKey); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, rec.MessageID); err != nil {
		return err
	}

	if err := s.cache.DeleteMaterialized(ctx, rec.MessageID); err != nil {
		logger.Warnf(ctx, "failed deleting cache for message #%s: %v", rec.MessageID, err)
	}

	return nil
}
