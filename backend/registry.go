package backend

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gpucontext"
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU backend.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU backend (gogpu/wgpu HAL).
	BackendNative = "native"
)

// Factory creates a new backend instance.
type Factory func() Backend

// Native is preferred over software when both are registered.
var backends = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(BackendNative, BackendSoftware),
)

// Register registers a backend factory with the given name.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	backends.Register(name, factory)
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	backends.Unregister(name)
}

// Available returns the registered backend names.
func Available() []string {
	return backends.Available()
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return backends.Has(name)
}

// Get returns a new, uninitialized backend instance by name.
// Returns nil if the backend is not registered.
func Get(name string) Backend {
	return backends.Get(name)
}

// Default returns the best available backend: native, then software.
// Returns nil if no backends are registered.
func Default() Backend {
	return backends.Best()
}

// Open returns the named backend, initialized. An empty name selects
// Default.
func Open(name string) (Backend, error) {
	var b Backend
	if name == "" {
		b = Default()
	} else {
		b = Get(name)
	}
	if b == nil {
		return nil, errors.Wrapf(ErrBackendNotAvailable, "backend %q", name)
	}
	if err := b.Init(); err != nil {
		return nil, err
	}
	return b, nil
}
