package filemeta

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/webp"
)

// Meta is descriptive metadata sniffed from upload bytes. It is attached to
// the stored object so it stays self-describing without a secondary index.
type Meta struct {
	Width     int
	Height    int
	PageCount int
}

// Extract sniffs descriptive metadata for the given mime type. Images and
// PDFs that fail to decode are reported as errors so corrupt files get
// rejected before any network call; other mime types pass through with
// empty metadata.
func Extract(mimeType string, data []byte) (Meta, error) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return extractImage(data)
	case mimeType == "application/pdf":
		return extractPdf(data)
	default:
		return Meta{}, nil
	}
}

// ToObjectMetadata renders the non-zero fields as object store user metadata.
func (m Meta) ToObjectMetadata() map[string]string {
	md := make(map[string]string)
	if m.Width > 0 {
		md["Image-Width"] = strconv.Itoa(m.Width)
		md["Image-Height"] = strconv.Itoa(m.Height)
	}
	if m.PageCount > 0 {
		md["Page-Count"] = strconv.Itoa(m.PageCount)
	}
	return md
}

func extractImage(data []byte) (Meta, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Meta{}, fmt.Errorf("error decoding image config: %w", err)
	}
	return Meta{Width: cfg.Width, Height: cfg.Height}, nil
}

func extractPdf(data []byte) (Meta, error) {
	// Structural validation first: a malformed PDF should never reach the
	// object store or the provider.
	if err := pdfapi.Validate(bytes.NewReader(data), nil); err != nil {
		return Meta{}, fmt.Errorf("invalid PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Meta{}, fmt.Errorf("error opening pdf reader: %w", err)
	}
	return Meta{PageCount: reader.NumPage()}, nil
}
