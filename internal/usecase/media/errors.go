package media

import "errors"

// Storage sentinels, mapped from the object store client's responses.
var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)

var (
	ErrMediaNotFound = errors.New("media record not found")

	// ErrFetchInProgress is lock contention: an expected concurrent-access
	// signal, not a failure. Callers should retry later instead of blocking.
	ErrFetchInProgress = errors.New("media fetch already in progress")

	ErrProviderMetadata = errors.New("provider: could not resolve media metadata")
	ErrProviderDownload = errors.New("provider: could not download media")
	ErrProviderUpload   = errors.New("provider: could not upload media")

	// ErrStorageUnavailable is fatal on the inbound path and merely degrades
	// the outbound path.
	ErrStorageUnavailable = errors.New("storage: no object store configured")
	ErrStorageUpload      = errors.New("storage: could not upload object")

	// ErrValidation covers bad mime types and oversized files, rejected
	// before any I/O.
	ErrValidation = errors.New("validation failed")
)
