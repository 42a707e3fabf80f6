package native

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texture"
	"github.com/gogpu/texture/backend"
)

// Backend uploads textures through a HAL device and queue.
//
// The HAL queue has no readback path, so ReadTexture returns
// backend.ErrNotSupported.
type Backend struct {
	mu          sync.RWMutex
	device      hal.Device
	queue       hal.Queue
	caps        texture.Capabilities
	initialized bool
	next        backend.Handle
	textures    map[backend.Handle]*HALTexture
}

var _ backend.Backend = (*Backend)(nil)

// New creates a native backend on an opened device. caps describes the
// adapter, typically from CapabilitiesOf.
func New(device hal.Device, queue hal.Queue, caps texture.Capabilities) *Backend {
	return &Backend{device: device, queue: queue, caps: caps}
}

// Register makes the native backend available under backend.BackendNative.
// Each backend.Get call returns a new Backend sharing device and queue.
func Register(device hal.Device, queue hal.Queue, caps texture.Capabilities) {
	backend.Register(backend.BackendNative, func() backend.Backend {
		return New(device, queue, caps)
	})
}

// CapabilitiesOf derives texture capabilities from an enumerated adapter:
// the usual profile for its backend type, with the adapter's own features
// and limits.
func CapabilitiesOf(a hal.ExposedAdapter) texture.Capabilities {
	caps := texture.CapabilitiesFor(a.Info.Backend)
	caps.Features = a.Features
	limits := a.Capabilities.Limits
	if limits.MaxTextureDimension2D != 0 {
		caps.MaxTextureDimension2D = limits.MaxTextureDimension2D
		caps.MaxTextureDimension3D = limits.MaxTextureDimension3D
		caps.MaxTextureArrayLayers = limits.MaxTextureArrayLayers
	}
	return caps
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendNative
}

// Init checks the device and queue.
func (b *Backend) Init() error {
	if b.device == nil || b.queue == nil {
		return ErrNilHALDevice
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.textures == nil {
		b.textures = make(map[backend.Handle]*HALTexture)
	}
	b.initialized = true
	return nil
}

// Close destroys every texture still alive. The device itself belongs to
// the caller.
func (b *Backend) Close() {
	b.mu.Lock()
	textures := b.textures
	b.textures = nil
	b.initialized = false
	b.mu.Unlock()

	for _, t := range textures {
		t.Destroy()
	}
}

// Capabilities returns the adapter profile given to New.
func (b *Backend) Capabilities() texture.Capabilities {
	return b.caps
}

// CreateTexture creates a GPU texture for shape.
func (b *Backend) CreateTexture(shape texture.Shape) (backend.Handle, error) {
	b.mu.RLock()
	ok := b.initialized
	b.mu.RUnlock()
	if !ok {
		return 0, backend.ErrNotInitialized
	}

	t, err := CreateHALTexture(b.device, shape)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		t.Destroy()
		return 0, backend.ErrNotInitialized
	}
	b.next++
	b.textures[b.next] = t
	return b.next, nil
}

// DestroyTexture destroys the GPU texture.
func (b *Backend) DestroyTexture(h backend.Handle) error {
	b.mu.Lock()
	t, ok := b.textures[h]
	delete(b.textures, h)
	b.mu.Unlock()

	if !ok {
		return errors.Wrapf(backend.ErrTextureNotFound, "native: handle %d", h)
	}
	t.Destroy()
	return nil
}

// Texture returns the HAL texture behind h.
func (b *Backend) Texture(h backend.Handle) (*HALTexture, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized {
		return nil, backend.ErrNotInitialized
	}
	t, ok := b.textures[h]
	if !ok {
		return nil, errors.Wrapf(backend.ErrTextureNotFound, "native: handle %d", h)
	}
	return t, nil
}

// WriteTexture issues one queue write per mip level of r. The layers of a
// level are contiguous in data, so a single write covers all of them.
func (b *Backend) WriteTexture(ctx context.Context, h backend.Handle, r texture.Range, data []byte) error {
	t, err := b.Texture(h)
	if err != nil {
		return err
	}
	shape := t.Shape()
	if err := shape.ValidateUpload(r, len(data)); err != nil {
		return err
	}
	subs, err := shape.Subresources(r)
	if err != nil {
		return err
	}
	raw := t.Raw()
	if raw == nil {
		return ErrTextureDestroyed
	}

	for i := 0; i < len(subs); i += r.NumLayers() {
		if err := ctx.Err(); err != nil {
			return err
		}
		first := subs[i]
		if err := b.queue.WriteTexture(
			imageCopy(raw, shape, first.Range),
			data[first.Offset:first.Offset+first.Size*r.NumLayers()],
			&hal.ImageDataLayout{
				BytesPerRow:  uint32(first.BytesPerRow),
				RowsPerImage: uint32(first.RowsPerImage),
			},
			copyExtent(shape, first.Range, r.NumLayers()),
		); err != nil {
			return errors.Wrapf(err, "native: write %s", first.Range)
		}
	}
	texture.Logger().Debug("native: wrote texture", "handle", h, "range", r.String(), "bytes", len(data))
	return nil
}

// ReadTexture is not supported: the HAL queue cannot read textures back.
func (b *Backend) ReadTexture(_ context.Context, h backend.Handle, r texture.Range) ([]byte, error) {
	if _, err := b.Texture(h); err != nil {
		return nil, err
	}
	return nil, errors.Wrapf(backend.ErrNotSupported, "native: read %s", r)
}

// imageCopy addresses the first layer of level range lr. Array layers
// and cube faces are selected through the Z origin, as WebGPU does.
func imageCopy(raw hal.Texture, shape texture.Shape, lr texture.Range) *hal.ImageCopyTexture {
	z := lr.Layer()
	if shape.Dimension() == texture.Dimension3D {
		z = lr.Z()
	}
	return &hal.ImageCopyTexture{
		Texture:  raw,
		MipLevel: uint32(lr.MipLevel()),
		Origin:   hal.Origin3D{X: uint32(lr.X()), Y: uint32(lr.Y()), Z: uint32(z)},
		Aspect:   gputypes.TextureAspectAll,
	}
}

func copyExtent(shape texture.Shape, lr texture.Range, layers int) *hal.Extent3D {
	depth := layers
	if shape.Dimension() == texture.Dimension3D {
		depth = lr.Depth()
	}
	return &hal.Extent3D{
		Width:              uint32(lr.Width()),
		Height:             uint32(lr.Height()),
		DepthOrArrayLayers: uint32(depth),
	}
}
