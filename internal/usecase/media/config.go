package media

import (
	"fmt"
	"time"

	"github.com/talkora/chat-media-go/internal/model"
)

// Per-category size ceilings, enforced before any I/O.
const (
	MaxImageSize    = 5 * 1024 * 1024
	MaxVideoSize    = 16 * 1024 * 1024
	MaxAudioSize    = 16 * 1024 * 1024
	MaxDocumentSize = 100 * 1024 * 1024
)

// DefaultFetchLeaseTTL bounds how long a crashed worker can keep a row in
// fetching before the lock becomes re-acquirable.
const DefaultFetchLeaseTTL = 5 * time.Minute

// MaterializedCacheTTL is long because ready rows are immutable.
const MaterializedCacheTTL = 24 * time.Hour

// ImmutableCacheControl is attached to every stored object: keys encode the
// message id, so a key's content never changes meaning.
const ImmutableCacheControl = "public, max-age=31536000, immutable"

var categoryByMime = map[string]model.Category{
	"image/jpeg": model.CategoryImage,
	"image/png":  model.CategoryImage,
	"image/webp": model.CategoryImage,

	"video/mp4":  model.CategoryVideo,
	"video/3gpp": model.CategoryVideo,

	"audio/aac":  model.CategoryAudio,
	"audio/mp4":  model.CategoryAudio,
	"audio/mpeg": model.CategoryAudio,
	"audio/amr":  model.CategoryAudio,
	"audio/ogg":  model.CategoryAudio,

	"application/pdf": model.CategoryDocument,
	"text/plain":      model.CategoryDocument,
	"application/msword":            model.CategoryDocument,
	"application/vnd.ms-excel":      model.CategoryDocument,
	"application/vnd.ms-powerpoint": model.CategoryDocument,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   model.CategoryDocument,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         model.CategoryDocument,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": model.CategoryDocument,
}

// CategoryForMime returns the media category of an allow-listed mime type.
func CategoryForMime(mime string) (model.Category, bool) {
	c, ok := categoryByMime[mime]
	return c, ok
}

// MaxSizeForCategory returns the size ceiling in bytes for a category.
func MaxSizeForCategory(c model.Category) int64 {
	switch c {
	case model.CategoryImage:
		return MaxImageSize
	case model.CategoryVideo:
		return MaxVideoSize
	case model.CategoryAudio:
		return MaxAudioSize
	default:
		return MaxDocumentSize
	}
}

// FormatSizeLimit renders a ceiling for error messages, e.g. "16 MB".
func FormatSizeLimit(n int64) string {
	return fmt.Sprintf("%d MB", n/(1024*1024))
}
