package model

// Category groups mime types into the buckets the provider distinguishes.
// It drives the per-category size ceilings and the storage key hierarchy.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "document"
)

// PluralSlug returns the path segment used for this category inside storage
// keys, e.g. "images" for CategoryImage.
func (c Category) PluralSlug() string {
	return string(c) + "s"
}
