package port

import "context"

// ProviderMediaInfo is the result of resolving a provider-assigned media id:
// a short-lived download URL plus the mime type the provider recorded.
type ProviderMediaInfo struct {
	URL       string
	MimeType  string
	SizeBytes int64
}

// Provider talks to the messaging provider's media API.
type Provider interface {
	// ResolveMedia exchanges an opaque media id for a transient download URL.
	ResolveMedia(ctx context.Context, mediaID string) (ProviderMediaInfo, error)

	// Download fetches the raw bytes behind a transient URL.
	Download(ctx context.Context, url string) ([]byte, error)

	// UploadMedia pushes bytes to the provider's delivery endpoint and
	// returns the provider-assigned media id required to dispatch a message.
	UploadMedia(ctx context.Context, data []byte, mimeType, filename string) (string, error)
}
