package mock

import (
	"context"

	"github.com/talkora/chat-media-go/internal/port"
)

// Provider implements the provider interface for tests.
type Provider struct {
	// stored values
	ResolveOut  port.ProviderMediaInfo
	DownloadOut []byte
	UploadOut   string

	// captured inputs
	ResolvedMediaID string
	DownloadedURL   string
	UploadedBytes   []byte
	UploadedMime    string
	UploadedName    string

	// errors
	ResolveErr  error
	DownloadErr error
	UploadErr   error

	// call flags
	ResolveCalled  bool
	DownloadCalled bool
	UploadCalled   bool
}

var _ port.Provider = (*Provider)(nil)

func (m *Provider) ResolveMedia(ctx context.Context, mediaID string) (port.ProviderMediaInfo, error) {
	m.ResolveCalled = true
	m.ResolvedMediaID = mediaID
	if m.ResolveErr != nil {
		return port.ProviderMediaInfo{}, m.ResolveErr
	}
	return m.ResolveOut, nil
}

func (m *Provider) Download(ctx context.Context, url string) ([]byte, error) {
	m.DownloadCalled = true
	m.DownloadedURL = url
	if m.DownloadErr != nil {
		return nil, m.DownloadErr
	}
	return m.DownloadOut, nil
}

func (m *Provider) UploadMedia(ctx context.Context, data []byte, mimeType, filename string) (string, error) {
	m.UploadCalled = true
	m.UploadedBytes = data
	m.UploadedMime = mimeType
	m.UploadedName = filename
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	return m.UploadOut, nil
}
