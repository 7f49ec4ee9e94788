package history

import "errors"

var (
	ErrInvalidConfig    = errors.New("history: invalid configuration")
	ErrInvalidStoreType = errors.New("history: invalid store type")
	ErrEmptyKey         = errors.New("history: key is required")
	ErrClosed           = errors.New("history: store closed")
)
