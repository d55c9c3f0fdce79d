package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrDemoClient  = errors.New("cannot delete demo client")
	ErrCorruptData = errors.New("corrupt stored data")
	ErrInvalidKey  = errors.New("invalid storage key")
)
