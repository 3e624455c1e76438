package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/model"
	"github.com/talkora/chat-media-go/internal/port"
)

type MediaRepository struct {
	db *sql.DB
}

// compile-time check: *MediaRepository must satisfy port.MediaRepository
var _ port.MediaRepository = (*MediaRepository)(nil)

func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(ctx context.Context, rec *model.MediaRecord) error {
	log.Printf("creating database record for message #%s, at status %q...", rec.MessageID, rec.FetchStatus)

	const query = `
      INSERT INTO message_media
        (message_id, conversation_id, business_id, media_id, media_key, media_url, media_hash, media_size, media_mime, original_filename, storage_provider, fetch_status, fetch_started_at, failure_message)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		rec.MessageID, rec.ConversationID, rec.BusinessID,
		rec.MediaID, rec.MediaKey, rec.MediaURL,
		rec.MediaHash, rec.MediaSize, rec.MediaMime,
		rec.OriginalFilename, rec.StorageProvider,
		rec.FetchStatus, rec.FetchStartedAt, rec.FailureMessage,
	)
	if err != nil {
		return err
	}

	return nil
}

func (r *MediaRepository) GetByMessageID(ctx context.Context, messageID db.UUID) (*model.MediaRecord, error) {
	log.Printf("fetching media record for message #%s from the database...", messageID)

	const query = `
      SELECT message_id, conversation_id, business_id, media_id, media_key, media_url, media_hash, media_size, media_mime, original_filename, storage_provider, fetch_status, fetch_started_at, failure_message, created_at, updated_at
      FROM message_media
      WHERE message_id = ?
    `
	row := r.db.QueryRowContext(ctx, query, messageID)
	var rec model.MediaRecord
	if err := row.Scan(
		&rec.MessageID, &rec.ConversationID, &rec.BusinessID,
		&rec.MediaID, &rec.MediaKey, &rec.MediaURL,
		&rec.MediaHash, &rec.MediaSize, &rec.MediaMime,
		&rec.OriginalFilename, &rec.StorageProvider,
		&rec.FetchStatus, &rec.FetchStartedAt, &rec.FailureMessage,
		&rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *MediaRepository) Delete(ctx context.Context, messageID db.UUID) error {
	log.Printf("deleting media record for message #%s...", messageID)

	const query = `DELETE FROM message_media WHERE message_id = ?`
	_, err := r.db.ExecContext(ctx, query, messageID)
	return err
}

// AcquireFetch is the single atomic conditional update the whole pipeline
// relies on for mutual exclusion. The WHERE clause admits pending and failed
// rows, plus fetching rows whose lease expired, so a crashed worker can
// never poison a row forever.
func (r *MediaRepository) AcquireFetch(ctx context.Context, messageID db.UUID, leaseTTL time.Duration) (bool, error) {
	log.Printf("attempting to acquire fetch lock for message #%s...", messageID)

	const query = `
      UPDATE message_media
      SET fetch_status = 'fetching', fetch_started_at = UTC_TIMESTAMP(), failure_message = NULL
      WHERE message_id = ?
        AND (
          fetch_status IN ('pending', 'failed')
          OR (fetch_status = 'fetching' AND fetch_started_at < (UTC_TIMESTAMP() - INTERVAL ? SECOND))
        )
    `
	res, err := r.db.ExecContext(ctx, query, messageID, int64(leaseTTL.Seconds()))
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// ReleaseFetch persists the outcome of an acquired fetch. It only applies
// while the row is still fetching, so a reclaimed lease cannot be clobbered
// by the original, slower worker.
func (r *MediaRepository) ReleaseFetch(ctx context.Context, rec *model.MediaRecord) error {
	if rec.FetchStatus != model.FetchStatusReady && rec.FetchStatus != model.FetchStatusFailed {
		return fmt.Errorf("release requires status ready or failed, got %q", rec.FetchStatus)
	}

	log.Printf("releasing fetch lock for message #%s to status %q...", rec.MessageID, rec.FetchStatus)

	const query = `
      UPDATE message_media
      SET
        media_id         = ?,
        media_key        = ?,
        media_url        = ?,
        media_hash       = ?,
        media_size       = ?,
        media_mime       = ?,
        storage_provider = ?,
        fetch_status     = ?,
        fetch_started_at = NULL,
        failure_message  = ?
      WHERE message_id = ? AND fetch_status = 'fetching'
    `
	res, err := r.db.ExecContext(ctx, query,
		rec.MediaID,
		rec.MediaKey,
		rec.MediaURL,
		rec.MediaHash,
		rec.MediaSize,
		rec.MediaMime,
		rec.StorageProvider,
		rec.FetchStatus,
		rec.FailureMessage,
		rec.MessageID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no in-flight fetch to release for message #%s", rec.MessageID)
	}
	return nil
}

func (r *MediaRepository) ListStaleFetching(ctx context.Context, before time.Time) ([]db.UUID, error) {
	log.Printf("listing fetching rows stale since %s...", before.Format(time.RFC3339))

	const query = `
      SELECT message_id
      FROM message_media
      WHERE fetch_status = 'fetching' AND fetch_started_at < ?
    `
	rows, err := r.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []db.UUID
	for rows.Next() {
		var id db.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
