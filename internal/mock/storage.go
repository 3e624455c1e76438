package mock

import (
	"context"
	"io"

	"github.com/talkora/chat-media-go/internal/port"
)

// Storage implements the storage interface for tests.
type Storage struct {
	// stored values
	StatInfoOut  port.FileInfo
	ExistsOut    bool
	PublicURLOut string
	ProviderOut  string

	// captured inputs
	FileKey    string
	SavedBytes []byte
	SavedOpts  port.SaveFileOptions
	RemovedKey string

	// errors
	SaveErr       error
	StatErr       error
	RemoveErr     error
	FileExistsErr error

	// call flags
	SaveCalled       bool
	StatCalled       bool
	RemoveCalled     bool
	FileExistsCalled bool
}

var _ port.Storage = (*Storage)(nil)

func (m *Storage) SaveFile(ctx context.Context, fileKey string, reader io.Reader, fileSize int64, opts port.SaveFileOptions) error {
	m.SaveCalled = true
	m.FileKey = fileKey
	m.SavedOpts = opts
	if data, err := io.ReadAll(reader); err == nil {
		m.SavedBytes = data
	}
	return m.SaveErr
}

func (m *Storage) FileExists(ctx context.Context, fileKey string) (bool, error) {
	m.FileExistsCalled = true
	m.FileKey = fileKey
	if m.FileExistsErr != nil {
		return false, m.FileExistsErr
	}
	return m.ExistsOut, nil
}

func (m *Storage) StatFile(ctx context.Context, fileKey string) (port.FileInfo, error) {
	m.StatCalled = true
	m.FileKey = fileKey
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	return m.StatInfoOut, nil
}

func (m *Storage) RemoveFile(ctx context.Context, fileKey string) error {
	m.RemoveCalled = true
	m.RemovedKey = fileKey
	return m.RemoveErr
}

func (m *Storage) PublicURL(fileKey string) string {
	if m.PublicURLOut != "" {
		return m.PublicURLOut
	}
	return "https://cdn.example.com/" + fileKey
}

func (m *Storage) Provider() string {
	if m.ProviderOut != "" {
		return m.ProviderOut
	}
	return "minio"
}
