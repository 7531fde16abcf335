package storage

import "errors"

// Sentinel errors for storage backends.
var (
	ErrInvalidKey  = errors.New("invalid storage key")
	ErrUnavailable = errors.New("storage unavailable")
	ErrDecode      = errors.New("decode stored value")
)
