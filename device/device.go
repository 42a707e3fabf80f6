// Package device ties the texture core to a backend: it resolves
// descriptors against the backend's capabilities, accounts memory in a
// budget, and validates every range before bytes reach the backend.
package device

import (
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gogpu/texture"
	"github.com/gogpu/texture/backend"
	"github.com/gogpu/texture/budget"
	"github.com/gogpu/texture/cache"
)

var (
	// ErrDeviceClosed is returned when using a closed device.
	ErrDeviceClosed = errors.New("device: closed")

	// ErrTextureClosed is returned when using a closed or evicted texture.
	ErrTextureClosed = errors.New("device: texture closed")
)

// Device creates textures on one backend.
//
// Device is safe for concurrent use.
type Device struct {
	backend   backend.Backend
	caps      texture.Capabilities
	budget    *budget.Manager
	validator *cache.Validator // nil when caching is disabled
	log       *slog.Logger

	mu       sync.Mutex
	textures map[uuid.UUID]*Texture
	closed   bool
}

// New opens a device. Without WithBackend or WithBackendName it uses
// backend.Default().
func New(opts ...Option) (*Device, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := o.backend
	if b == nil {
		var err error
		if b, err = backend.Open(o.backendName); err != nil {
			return nil, err
		}
	} else if err := b.Init(); err != nil {
		return nil, errors.Wrapf(err, "device: init backend %s", b.Name())
	}

	log := o.logger
	if log == nil {
		log = texture.Logger()
	}
	d := &Device{
		backend:  b,
		caps:     b.Capabilities(),
		budget:   budget.New(o.budget),
		log:      log.With("backend", b.Name()),
		textures: make(map[uuid.UUID]*Texture),
	}
	if o.cacheCapacity >= 0 {
		d.validator = cache.NewValidator(o.cacheCapacity)
	}
	d.log.Debug("device: opened", "budget", d.budget.Stats().BudgetBytes)
	return d, nil
}

// Backend returns the backend the device runs on.
func (d *Device) Backend() backend.Backend {
	return d.backend
}

// Capabilities returns the backend capabilities textures are resolved
// against.
func (d *Device) Capabilities() texture.Capabilities {
	return d.caps
}

// Resolve resolves desc against the device capabilities without creating
// anything.
func (d *Device) Resolve(desc texture.Descriptor) (texture.Shape, error) {
	return texture.Resolve(desc, d.caps)
}

// NewTexture resolves desc, reserves its memory and allocates it on the
// backend. Reserving may evict other textures of this device.
func (d *Device) NewTexture(desc texture.Descriptor) (*Texture, error) {
	shape, err := d.Resolve(desc)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return nil, ErrDeviceClosed
	}

	t := &Texture{id: uuid.New(), dev: d, shape: shape}
	if err := d.budget.Reserve(t.id, shape, t.evict); err != nil {
		return nil, err
	}
	h, err := d.backend.CreateTexture(shape)
	if err != nil {
		d.budget.Release(t.id)
		return nil, err
	}
	t.mu.Lock()
	t.handle = h
	evicted := t.closed
	t.mu.Unlock()
	if evicted {
		_ = d.backend.DestroyTexture(h)
		return nil, errors.Wrapf(ErrTextureClosed, "texture %s evicted while being created", t.id)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.budget.Release(t.id)
		_ = d.backend.DestroyTexture(h)
		return nil, ErrDeviceClosed
	}
	d.textures[t.id] = t
	d.mu.Unlock()

	d.log.Debug("device: created texture", "id", t.id, "shape", shape.String(),
		"bytes", shape.EstimatedSizeInBytes())
	return t, nil
}

// validate checks r against shape, through the cache when enabled.
func (d *Device) validate(shape texture.Shape, r texture.Range) error {
	if d.validator == nil {
		return shape.ValidateRange(r)
	}
	return d.validator.Validate(shape, r)
}

// forget drops t from the device after it was closed. Cached verdicts are
// keyed by shape and shared by equal textures, so they are dropped only
// when no live texture has t's shape.
func (d *Device) forget(t *Texture) {
	d.mu.Lock()
	delete(d.textures, t.id)
	shared := false
	for _, other := range d.textures {
		if other.shape == t.shape {
			shared = true
			break
		}
	}
	d.mu.Unlock()
	if d.validator != nil && !shared {
		d.validator.Forget(t.shape)
	}
}

// Textures returns the number of live textures.
func (d *Device) Textures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}

// BudgetStats returns the memory budget usage.
func (d *Device) BudgetStats() budget.Stats {
	return d.budget.Stats()
}

// SetMemoryBudget changes the budget, evicting textures if needed.
func (d *Device) SetMemoryBudget(bytes uint64) error {
	return d.budget.SetBudget(bytes)
}

// ValidationStats returns the validation cache counters. It is zero when
// caching is disabled.
func (d *Device) ValidationStats() cache.Stats {
	if d.validator == nil {
		return cache.Stats{}
	}
	return d.validator.Stats()
}

// Close closes every texture, then the backend. It is idempotent.
func (d *Device) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	textures := make([]*Texture, 0, len(d.textures))
	for _, t := range d.textures {
		textures = append(textures, t)
	}
	d.mu.Unlock()

	for _, t := range textures {
		_ = t.Close()
	}
	d.budget.Close()
	d.backend.Close()
	d.log.Debug("device: closed", "textures", len(textures))
}
