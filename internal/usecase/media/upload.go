package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/talkora/chat-media-go/internal/filemeta"
	"github.com/talkora/chat-media-go/internal/logger"
	"github.com/talkora/chat-media-go/internal/mediahash"
	"github.com/talkora/chat-media-go/internal/mediakey"
	"github.com/talkora/chat-media-go/internal/model"
	"github.com/talkora/chat-media-go/internal/port"
)

type uploaderSrv struct {
	repo       port.MediaRepository
	strg       port.Storage
	provider   port.Provider
	dispatcher port.TaskDispatcher
	genUUID    port.UUIDGen
	keyRoot    string
}

// compile-time check: *uploaderSrv must satisfy port.MediaUploader
var _ port.MediaUploader = (*uploaderSrv)(nil)

// NewMediaUploader wires the outbound pipeline. strg may be nil: persistent
// storage is a durability enhancement, not a precondition for delivery.
func NewMediaUploader(repo port.MediaRepository, strg port.Storage, provider port.Provider, dispatcher port.TaskDispatcher, genUUID port.UUIDGen, keyRoot string) port.MediaUploader {
	return &uploaderSrv{repo: repo, strg: strg, provider: provider, dispatcher: dispatcher, genUUID: genUUID, keyRoot: keyRoot}
}

// UploadMedia validates the file, then runs the dual write as an ordered
// sequence of compensable steps: object store first (failure degrades),
// provider delivery second (failure is fatal and undoes the store write).
func (s *uploaderSrv) UploadMedia(ctx context.Context, in port.UploadInput) (*port.UploadOutput, error) {
	category, ok := CategoryForMime(in.MimeType)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported mime type %q", ErrValidation, in.MimeType)
	}

	size := int64(len(in.Data))
	if size == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrValidation)
	}
	if limit := MaxSizeForCategory(category); size > limit {
		return nil, fmt.Errorf("%w: file too large for category %q: %d bytes (max %s)",
			ErrValidation, category, size, FormatSizeLimit(limit))
	}

	meta, err := filemeta.Extract(in.MimeType, in.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	messageID := s.genUUID()
	digest := mediahash.Hash(in.Data)

	rec := &model.MediaRecord{
		MessageID:      messageID,
		ConversationID: in.ConversationID,
		BusinessID:     in.BusinessID,
		MediaHash:      &digest,
		MediaSize:      &size,
		MediaMime:      &in.MimeType,
		FetchStatus:    model.FetchStatusPending,
	}
	if in.Filename != "" {
		rec.OriginalFilename = &in.Filename
	}

	stored := false
	if s.strg != nil {
		key, derr := mediakey.DeriveKey(s.keyRoot, in.BusinessID, in.ConversationID, messageID, category, in.MimeType)
		if derr != nil {
			// A key invariant violation is a defect, never something to
			// degrade around.
			return nil, derr
		}

		opts := port.SaveFileOptions{
			ContentType:  in.MimeType,
			CacheControl: ImmutableCacheControl,
			Metadata:     uploadObjectMetadata(rec, digest, meta),
		}
		if serr := s.strg.SaveFile(ctx, key, bytes.NewReader(in.Data), size, opts); serr != nil {
			// Degrade: the send still goes out, durability is backfilled
			// asynchronously.
			logger.Warnf(ctx, "⚠️  Object store write failed for message #%s, proceeding without persistent storage: %v", messageID, serr)
		} else {
			url := s.strg.PublicURL(key)
			providerName := s.strg.Provider()
			rec.MediaKey = &key
			rec.MediaURL = &url
			rec.StorageProvider = &providerName
			stored = true
		}
	}

	providerMediaID, err := s.provider.UploadMedia(ctx, in.Data, in.MimeType, in.Filename)
	if err != nil {
		// A message cannot be dispatched without a provider-recognized media
		// reference; compensate the store write before failing.
		if stored {
			if rmErr := s.strg.RemoveFile(ctx, *rec.MediaKey); rmErr != nil {
				logger.Warnf(ctx, "could not remove orphaned object %q: %v", *rec.MediaKey, rmErr)
			}
		}
		return nil, err
	}

	rec.MediaID = &providerMediaID
	if stored {
		rec.FetchStatus = model.FetchStatusReady
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating record for message #%s: %w", messageID, err)
	}

	if !stored && s.strg != nil {
		// The provider holds the bytes; let the worker re-fetch and persist
		// them once the store recovers.
		if qErr := s.dispatcher.EnqueueMaterializeMedia(ctx, messageID, providerMediaID, in.ConversationID); qErr != nil {
			logger.Warnf(ctx, "could not enqueue storage backfill for message #%s: %v", messageID, qErr)
		}
	}

	logger.Infof(ctx, "✅  Uploaded media for message #%s (provider media %s, stored=%t)", messageID, providerMediaID, stored)

	return &port.UploadOutput{
		MessageID:       messageID,
		PersistentURL:   rec.MediaURL,
		ProviderMediaID: providerMediaID,
		MimeType:        in.MimeType,
		SizeBytes:       size,
		StorageProvider: rec.StorageProvider,
	}, nil
}

func uploadObjectMetadata(rec *model.MediaRecord, digest string, meta filemeta.Meta) map[string]string {
	md := objectMetadata(rec, digest)
	for k, v := range meta.ToObjectMetadata() {
		md[k] = v
	}
	return md
}
