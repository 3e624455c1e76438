package media

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/mediahash"
	"github.com/talkora/chat-media-go/internal/mediakey"
	"github.com/talkora/chat-media-go/internal/model"
	"github.com/talkora/chat-media-go/internal/port"
)

type materializerSrv struct {
	repo     port.MediaRepository
	strg     port.Storage
	provider port.Provider
	cache    port.Cache
	lock     *LockCoordinator
	keyRoot  string
}

// compile-time check: *materializerSrv must satisfy port.MediaMaterializer
var _ port.MediaMaterializer = (*materializerSrv)(nil)

// NewMediaMaterializer wires the inbound pipeline: lock coordinator →
// provider → hasher → key deriver → object store → status update.
// strg may be nil when no object store is configured; materialization is
// then unavailable (ErrStorageUnavailable).
func NewMediaMaterializer(repo port.MediaRepository, strg port.Storage, provider port.Provider, cache port.Cache, lock *LockCoordinator, keyRoot string) port.MediaMaterializer {
	return &materializerSrv{repo: repo, strg: strg, provider: provider, cache: cache, lock: lock, keyRoot: keyRoot}
}

// MaterializeMedia converts a transient provider reference into a durable
// stored object. It runs as one sequential chain of awaited external calls;
// concurrent requests for the same message race for the lock and losers get
// ErrFetchInProgress immediately instead of holding a connection open across
// a slow download.
func (s *materializerSrv) MaterializeMedia(ctx context.Context, in port.MaterializeInput) (*port.MaterializeOutput, error) {
	// Fast path 1: materialized output cached from a previous call.
	if data, err := s.cache.GetMaterialized(ctx, in.MessageID); err == nil && data != nil {
		var out port.MaterializeOutput
		if err := json.Unmarshal(data, &out); err == nil {
			out.Cached = true
			return &out, nil
		}
		logger.Warnf(ctx, "corrupt cache entry for message #%s, falling through to the database", in.MessageID)
	}

	rec, err := s.repo.GetByMessageID(ctx, in.MessageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("fetching record for message #%s: %w", in.MessageID, err)
	}

	// The caller's conversation must match the row's; a mismatch reads the
	// same as a missing row so callers cannot probe other conversations.
	if in.ConversationID != "" && in.ConversationID != rec.ConversationID {
		logger.Warnf(ctx, "conversation mismatch for message #%s: row belongs to %q", in.MessageID, rec.ConversationID)
		return nil, ErrMediaNotFound
	}

	// Fast path 2: the row is already ready; return its stored fields with
	// zero provider or store calls.
	if rec.IsReady() {
		out := outputFromRecord(rec)
		out.Cached = true
		s.cacheOutput(ctx, rec.MessageID, out)
		return out, nil
	}

	// A visibly in-flight fetch with a fresh lease means contention; skip the
	// conditional update entirely and tell the caller to retry later.
	if rec.FetchStatus == model.FetchStatusFetching && s.leaseFresh(rec) {
		return nil, ErrFetchInProgress
	}

	acquired, err := s.lock.Acquire(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("acquiring fetch lock for message #%s: %w", in.MessageID, err)
	}
	if !acquired {
		// Lost the race; the winner will drive the row to ready or failed.
		return nil, ErrFetchInProgress
	}

	// From here the lock is held: every failure must release it to failed so
	// the row stays queryable and retryable.
	var finalErr error
	defer func() {
		if finalErr != nil {
			if relErr := s.lock.ReleaseFailed(ctx, rec, finalErr.Error()); relErr != nil {
				logger.Warnf(ctx, "could not mark fetch failed for message #%s: %v", in.MessageID, relErr)
			}
		}
	}()

	mediaID := in.MediaID
	if mediaID == "" && rec.MediaID != nil {
		mediaID = *rec.MediaID
	}
	if mediaID == "" {
		finalErr = fmt.Errorf("%w: no provider media id for message #%s", ErrProviderMetadata, in.MessageID)
		return nil, finalErr
	}

	if s.strg == nil {
		finalErr = ErrStorageUnavailable
		return nil, finalErr
	}

	info, err := s.provider.ResolveMedia(ctx, mediaID)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}

	data, err := s.provider.Download(ctx, info.URL)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}

	digest := mediahash.Hash(data)

	category, ok := CategoryForMime(info.MimeType)
	if !ok {
		// Inbound media is not allow-listed: the provider already accepted
		// it, so file it under documents with the generic extension.
		category = model.CategoryDocument
	}
	key, err := mediakey.DeriveKey(s.keyRoot, rec.BusinessID, rec.ConversationID, rec.MessageID, category, info.MimeType)
	if err != nil {
		finalErr = err
		return nil, finalErr
	}

	opts := port.SaveFileOptions{
		ContentType:  info.MimeType,
		CacheControl: ImmutableCacheControl,
		Metadata:     objectMetadata(rec, digest),
	}
	if err := s.strg.SaveFile(ctx, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		finalErr = fmt.Errorf("%w: %v", ErrStorageUpload, err)
		return nil, finalErr
	}

	size := int64(len(data))
	url := s.strg.PublicURL(key)
	providerName := s.strg.Provider()

	rec.MediaID = &mediaID
	rec.MediaKey = &key
	rec.MediaURL = &url
	rec.MediaHash = &digest
	rec.MediaSize = &size
	rec.MediaMime = &info.MimeType
	rec.StorageProvider = &providerName

	// The row only becomes ready after the store write was observed to
	// succeed, so any reader seeing ready is guaranteed the object exists.
	if err := s.lock.ReleaseReady(ctx, rec); err != nil {
		finalErr = err
		return nil, finalErr
	}

	logger.Infof(ctx, "✅  Materialized media for message #%s at %q (%d bytes)", rec.MessageID, key, size)

	out := outputFromRecord(rec)
	s.cacheOutput(ctx, rec.MessageID, out)
	return out, nil
}

func (s *materializerSrv) leaseFresh(rec *model.MediaRecord) bool {
	if rec.FetchStartedAt == nil {
		// Legacy row without a lease timestamp: treat as acquirable.
		return false
	}
	return time.Since(*rec.FetchStartedAt) < s.lock.LeaseTTL()
}

func (s *materializerSrv) cacheOutput(ctx context.Context, messageID db.UUID, out *port.MaterializeOutput) {
	data, err := json.Marshal(out)
	if err != nil {
		logger.Warnf(ctx, "could not marshal materialized output for message #%s: %v", messageID, err)
		return
	}
	s.cache.SetMaterialized(ctx, messageID, data)
}

func outputFromRecord(rec *model.MediaRecord) *port.MaterializeOutput {
	out := &port.MaterializeOutput{}
	if rec.MediaURL != nil {
		out.URL = *rec.MediaURL
	}
	if rec.MediaHash != nil {
		out.Hash = *rec.MediaHash
	}
	if rec.MediaSize != nil {
		out.SizeBytes = *rec.MediaSize
	}
	if rec.MediaMime != nil {
		out.MimeType = *rec.MediaMime
	}
	return out
}

func objectMetadata(rec *model.MediaRecord, digest string) map[string]string {
	md := map[string]string{
		"Message-Id":      rec.MessageID.String(),
		"Business-Id":     rec.BusinessID,
		"Conversation-Id": rec.ConversationID,
		"Content-Hash":    digest,
	}
	if rec.OriginalFilename != nil && *rec.OriginalFilename != "" {
		md["Original-Filename"] = *rec.OriginalFilename
	}
	return md
}
