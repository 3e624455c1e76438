package mediakey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/talkora/chat-media-go/internal/db"
	"github.com/talkora/chat-media-go/internal/model"
)

// ErrKeyInvariant flags a derived key that does not embed the message id.
// That would silently break addressing and dedup, so it is treated as a
// programming defect, never a user-facing condition.
var ErrKeyInvariant = errors.New("mediakey: derived key does not contain the message id")

// extByMime is the fixed mime→extension table. Unmapped mimes fall back to
// a generic binary extension.
var extByMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",

	"video/mp4":  ".mp4",
	"video/3gpp": ".3gp",

	"audio/aac":  ".aac",
	"audio/mp4":  ".m4a",
	"audio/mpeg": ".mp3",
	"audio/amr":  ".amr",
	"audio/ogg":  ".ogg",

	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"application/msword":            ".doc",
	"application/vnd.ms-excel":      ".xls",
	"application/vnd.ms-powerpoint": ".ppt",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

const fallbackExt = ".bin"

// ExtensionForMime maps a mime type onto its canonical file extension,
// falling back to ".bin" for anything unmapped.
func ExtensionForMime(mime string) string {
	if ext, ok := extByMime[mime]; ok {
		return ext
	}
	return fallbackExt
}

// DeriveKey produces the deterministic, hierarchical storage key for a media
// object:
//
//	<root>/business/<businessID>/conversation/<conversationID>/<categorySlug>/<messageID><ext>
//
// The result is a pure function of identifiers fixed at row creation, so
// recomputing it always yields the same value for the same message.
func DeriveKey(root, businessID, conversationID string, messageID db.UUID, category model.Category, mime string) (string, error) {
	key := fmt.Sprintf("%s/business/%s/conversation/%s/%s/%s%s",
		strings.Trim(root, "/"),
		businessID,
		conversationID,
		category.PluralSlug(),
		messageID.String(),
		ExtensionForMime(mime),
	)

	if !strings.Contains(key, messageID.String()) {
		return "", fmt.Errorf("%w: %q", ErrKeyInvariant, key)
	}
	return key, nil
}
