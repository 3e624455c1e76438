package mock

import (
	"context"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/port"
)

// MediaMaterializer implements the materializer usecase for handler tests.
type MediaMaterializer struct {
	Out *port.MaterializeOutput
	Err error

	In     port.MaterializeInput
	Called bool
}

var _ port.MediaMaterializer = (*MediaMaterializer)(nil)

func (m *MediaMaterializer) MaterializeMedia(ctx context.Context, in port.MaterializeInput) (*port.MaterializeOutput, error) {
	m.Called = true
	m.In = in
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Out, nil
}

// MediaUploader implements the uploader usecase for handler tests.
type MediaUploader struct {
	Out *port.UploadOutput
	Err error

	In     port.UploadInput
	Called bool
}

var _ port.MediaUploader = (*MediaUploader)(nil)

func (m *MediaUploader) UploadMedia(ctx context.Context, in port.UploadInput) (*port.UploadOutput, error) {
	m.Called = true
	m.In = in
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Out, nil
}

// MediaDeleter implements the deleter usecase for handler tests.
type MediaDeleter struct {
	Err error

	ID     db.UUID
	Called bool
}

var _ port.MediaDeleter = (*MediaDeleter)(nil)

func (m *MediaDeleter) DeleteMedia(ctx context.Context, messageID db.UUID) error {
	m.Called = true
	m.ID = messageID
	return m.Err
}

// StaleReclaimer implements the reclaimer usecase for worker tests.
type StaleReclaimer struct {
	Err error

	Called bool
}

var _ port.StaleReclaimer = (*StaleReclaimer)(nil)

func (m *StaleReclaimer) ReclaimStale(ctx context.Context) error {
	m.Called = true
	return m.Err
}
