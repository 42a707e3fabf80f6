// Package native stores textures on a GPU through the gogpu/wgpu HAL.
package native

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/texture"
)

// HALTexture is a GPU texture created from a resolved texture.Shape.
//
// The default view covers every layer and mip level and is created lazily
// using sync.Once. Views over a sub-range are created on demand with
// CreateView and owned by the caller.
//
// HALTexture is safe for concurrent use. Destroy is idempotent.
type HALTexture struct {
	mu sync.RWMutex

	halTexture hal.Texture
	device     hal.Device
	shape      texture.Shape

	defaultViewOnce sync.Once
	defaultView     hal.TextureView
	defaultViewErr  error

	destroyed bool
}

// DescriptorFor converts shape into a HAL texture descriptor. Array layers
// and cube faces go into DepthOrArrayLayers, as do depth slices of a 3D
// texture.
func DescriptorFor(shape texture.Shape) (*hal.TextureDescriptor, error) {
	if shape.IsZero() {
		return nil, errors.Wrap(texture.ErrInvalidDescriptor, "native: unresolved shape")
	}
	format, ok := shape.Format().GPUFormat()
	if !ok {
		return nil, errors.Wrapf(texture.ErrUnsupportedFormat,
			"native: format %s has no WebGPU equivalent", shape.Format())
	}
	depthOrLayers := shape.Layers()
	if shape.Dimension() == texture.Dimension3D {
		depthOrLayers = shape.Depth()
	}
	return &hal.TextureDescriptor{
		Label: shape.Label(),
		Size: hal.Extent3D{
			Width:              uint32(shape.Width()),
			Height:             uint32(shape.Height()),
			DepthOrArrayLayers: uint32(depthOrLayers),
		},
		MipLevelCount: uint32(shape.MipLevels()),
		SampleCount:   1,
		Dimension:     shape.Dimension().GPUDimension(),
		Format:        format,
		Usage:         shape.Usage(),
	}, nil
}

// CreateHALTexture creates the GPU texture for shape on device.
func CreateHALTexture(device hal.Device, shape texture.Shape) (*HALTexture, error) {
	if device == nil {
		return nil, ErrNilHALDevice
	}
	desc, err := DescriptorFor(shape)
	if err != nil {
		return nil, err
	}
	raw, err := device.CreateTexture(desc)
	if err != nil {
		return nil, errors.Wrapf(err, "native: create texture %s", shape)
	}
	return &HALTexture{halTexture: raw, device: device, shape: shape}, nil
}

// Shape returns the resolved shape the texture was created from.
func (t *HALTexture) Shape() texture.Shape {
	return t.shape
}

// IsDestroyed returns true if the texture has been destroyed.
func (t *HALTexture) IsDestroyed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.destroyed
}

// Raw returns the underlying HAL texture, or nil once destroyed.
func (t *HALTexture) Raw() hal.Texture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.halTexture
}

// GetDefaultView returns the view over the whole texture, creating it on
// first call.
func (t *HALTexture) GetDefaultView() (hal.TextureView, error) {
	if t.IsDestroyed() {
		return nil, ErrTextureDestroyed
	}
	t.defaultViewOnce.Do(func() {
		view, err := t.CreateView(t.shape.FullRange(0, 0))
		if err != nil {
			t.defaultViewErr = errors.Mark(err, ErrDefaultViewCreationFailed)
			return
		}
		t.defaultView = view
	})
	return t.defaultView, t.defaultViewErr
}

// CreateView creates a view over the layers and mip levels of r. The
// offset and extent of r are ignored: views always cover whole levels.
// The caller destroys the view with the device.
func (t *HALTexture) CreateView(r texture.Range) (hal.TextureView, error) {
	if err := t.shape.ValidateRange(r); err != nil {
		return nil, err
	}
	t.mu.RLock()
	device, raw, destroyed := t.device, t.halTexture, t.destroyed
	t.mu.RUnlock()
	if destroyed {
		return nil, ErrTextureDestroyed
	}

	desc := ViewDescriptorFor(t.shape, r)
	view, err := device.CreateTextureView(raw, desc)
	if err != nil {
		return nil, errors.Wrapf(err, "native: create view %s", r)
	}
	return view, nil
}

// ViewDescriptorFor returns the view descriptor selecting r's layers and
// mip levels of shape.
func ViewDescriptorFor(shape texture.Shape, r texture.Range) *hal.TextureViewDescriptor {
	desc := &hal.TextureViewDescriptor{
		Label:         shape.Label(),
		Dimension:     viewDimension(shape.Dimension(), r.NumLayers()),
		Aspect:        gputypes.TextureAspectAll,
		BaseMipLevel:  uint32(r.MipLevel()),
		MipLevelCount: uint32(r.NumMipLevels()),
	}
	if shape.Dimension() != texture.Dimension3D {
		desc.BaseArrayLayer = uint32(r.Layer())
		desc.ArrayLayerCount = uint32(r.NumLayers())
	}
	return desc
}

// viewDimension picks the view dimension for layers layers. A cube view
// that does not cover whole cubes falls back to a 2D (array) view.
func viewDimension(d texture.Dimension, layers int) gputypes.TextureViewDimension {
	if d == texture.DimensionCube && layers%6 != 0 {
		if layers == 1 {
			return gputypes.TextureViewDimension2D
		}
		return gputypes.TextureViewDimension2DArray
	}
	return d.ViewDimension(layers)
}

// Destroy releases the default view and the texture.
func (t *HALTexture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	device, raw := t.device, t.halTexture
	t.halTexture = nil
	t.mu.Unlock()

	// Wait out a concurrent GetDefaultView so the view is not leaked.
	t.defaultViewOnce.Do(func() {})
	if t.defaultView != nil {
		device.DestroyTextureView(t.defaultView)
	}
	if raw != nil {
		device.DestroyTexture(raw)
	}
}
