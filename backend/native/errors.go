package native

import "github.com/cockroachdb/errors"

// Package errors for the native backend.
var (
	// ErrNilHALDevice is returned when the backend has no HAL device or queue.
	ErrNilHALDevice = errors.New("native: HAL device is nil")

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("native: texture has been destroyed")

	// ErrDefaultViewCreationFailed is returned when lazy default view creation fails.
	ErrDefaultViewCreationFailed = errors.New("native: failed to create default view")
)
