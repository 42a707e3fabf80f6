package device

import (
	"log/slog"

	"github.com/gogpu/texture/backend"
	"github.com/gogpu/texture/budget"
)

// Option configures a Device during creation.
//
// Example:
//
//	// Best registered backend, default budget
//	dev, err := device.New()
//
//	// Explicit backend and a 64 MiB budget
//	dev, err := device.New(
//		device.WithBackend(backend.NewSoftwareBackend(texture.GLES2Capabilities())),
//		device.WithMemoryBudget(64<<20),
//	)
type Option func(*options)

type options struct {
	backend       backend.Backend
	backendName   string
	budget        budget.Config
	logger        *slog.Logger
	cacheCapacity int
}

func defaultOptions() options {
	return options{
		cacheCapacity: 0, // cache.DefaultCapacity
	}
}

// WithBackend uses b instead of a registered backend. The device calls
// b.Init and closes b on Close.
func WithBackend(b backend.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBackendName selects a registered backend by name.
// See backend.BackendSoftware and backend.BackendNative.
func WithBackendName(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithMemoryBudget sets the texture memory budget in bytes. Textures are
// evicted, least recently used first, to stay within it.
func WithMemoryBudget(bytes uint64) Option {
	return func(o *options) {
		o.budget.Bytes = bytes
	}
}

// WithBudgetWarning logs a warning when usage crosses fraction of the
// budget.
func WithBudgetWarning(fraction float64) Option {
	return func(o *options) {
		o.budget.WarnFraction = fraction
	}
}

// WithLogger sets the logger for device events. Defaults to
// texture.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithValidationCache sets the per-shard capacity of the range validation
// cache. A negative capacity disables caching.
func WithValidationCache(capacity int) Option {
	return func(o *options) {
		o.cacheCapacity = capacity
	}
}
