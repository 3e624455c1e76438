package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/talkora/chat-media-go/internal/port"
	media "github.com/talkora/chat-media-go/internal/usecase/media"
)

// Client talks to the messaging provider's Graph-style media API with a
// bearer credential. Media download URLs it hands out are short-lived.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	senderID    string
}

// compile-time check: *Client must satisfy port.Provider
var _ port.Provider = (*Client)(nil)

func NewClient(baseURL, accessToken, senderID string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		baseURL:     baseURL,
		accessToken: accessToken,
		senderID:    senderID,
	}
}

type resolveResponse struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
	ID       string `json:"id"`
}

type uploadResponse struct {
	ID string `json:"id"`
}

// ResolveMedia exchanges a provider media id for a transient download URL
// and the mime type the provider recorded. Expired or invalid ids and
// revoked credentials all surface as metadata errors.
func (c *Client) ResolveMedia(ctx context.Context, mediaID string) (port.ProviderMediaInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", c.baseURL, mediaID), nil)
	if err != nil {
		return port.ProviderMediaInfo{}, fmt.Errorf("%w: %v", media.ErrProviderMetadata, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return port.ProviderMediaInfo{}, fmt.Errorf("%w: %v", media.ErrProviderMetadata, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return port.ProviderMediaInfo{}, fmt.Errorf("%w: media %q returned status %d", media.ErrProviderMetadata, mediaID, resp.StatusCode)
	}

	var out resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return port.ProviderMediaInfo{}, fmt.Errorf("%w: decoding response for media %q: %v", media.ErrProviderMetadata, mediaID, err)
	}
	if out.URL == "" {
		return port.ProviderMediaInfo{}, fmt.Errorf("%w: media %q has no download url", media.ErrProviderMetadata, mediaID)
	}

	return port.ProviderMediaInfo{
		URL:       out.URL,
		MimeType:  out.MimeType,
		SizeBytes: out.FileSize,
	}, nil
}

// Download fetches the raw bytes behind a transient URL. The URL expires
// quickly, so network failures and 4xx both classify as download errors.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrProviderDownload, err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrProviderDownload, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download returned status %d", media.ErrProviderDownload, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", media.ErrProviderDownload, err)
	}
	return data, nil
}

// UploadMedia pushes bytes to the provider's delivery endpoint and returns
// the provider-assigned media id a message dispatch requires.
func (c *Client) UploadMedia(ctx context.Context, data []byte, mimeType, filename string) (string, error) {
	if filename == "" {
		filename = "file"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("messaging_product", "whatsapp"); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrProviderUpload, err)
	}
	if err := mw.WriteField("type", mimeType); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrProviderUpload, err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrProviderUpload, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrProviderUpload, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrProviderUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s/media", c.baseURL, c.senderID), &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrProviderUpload, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrProviderUpload, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: delivery endpoint returned status %d", media.ErrProviderUpload, resp.StatusCode)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", media.ErrProviderUpload, err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("%w: delivery endpoint returned no media id", media.ErrProviderUpload)
	}
	return out.ID, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
}

func closeBody(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
