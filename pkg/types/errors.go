package types

import "errors"

// Catalog and metadata errors.
var (
	ErrNotFound          = errors.New("map not found")
	ErrInvalidID         = errors.New("invalid map ID")
	ErrPathEscape        = errors.New("path escapes the library root")
	ErrTooManyCollisions = errors.New("too many name collisions")
	ErrAlreadyAttached   = errors.New("catalog already attached")
	ErrDetached          = errors.New("catalog not attached")
)

// Background processing errors.
var (
	ErrOCRUnavailable = errors.New("ocr engine unavailable")
	ErrQueueStopped   = errors.New("ocr queue stopped")
)
