package backend

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/texture"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrTextureNotFound is returned for handles the backend does not own,
	// including handles already destroyed.
	ErrTextureNotFound = errors.New("backend: texture not found")

	// ErrNotSupported is returned for operations a backend cannot perform,
	// such as readback on a write-only queue.
	ErrNotSupported = errors.New("backend: operation not supported")
)

// Handle identifies a texture allocated by a backend. Zero is never a
// valid handle.
type Handle uint64

// Backend stores texture memory.
//
// A backend receives ranges that callers have already validated, but it
// checks them again through texture.Shape before touching memory: data
// for a range is always the packed layout described by
// texture.Shape.Subresources.
//
// Backends must be safe for concurrent use.
type Backend interface {
	// Name returns the backend identifier (e.g., "software", "native").
	Name() string

	// Init prepares the backend. It must be called before any texture
	// operation.
	Init() error

	// Close releases every texture and the backend itself.
	Close()

	// Capabilities reports what textures the backend can hold.
	Capabilities() texture.Capabilities

	// CreateTexture allocates storage for every layer and mip level of shape.
	CreateTexture(shape texture.Shape) (Handle, error)

	// DestroyTexture frees a texture. Destroying an unknown handle returns
	// ErrTextureNotFound.
	DestroyTexture(h Handle) error

	// WriteTexture copies data, packed as for r, into the texture.
	WriteTexture(ctx context.Context, h Handle, r texture.Range, data []byte) error

	// ReadTexture returns the contents of r, packed.
	ReadTexture(ctx context.Context, h Handle, r texture.Range) ([]byte, error)
}
