package backend

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/texture"
)

// SoftwareBackend keeps texture memory in CPU slices, one per layer and
// mip level. It supports readback, which makes it the reference backend
// for tests.
type SoftwareBackend struct {
	mu          sync.RWMutex
	caps        texture.Capabilities
	initialized bool
	next        Handle
	textures    map[Handle]*softTexture
}

type softTexture struct {
	mu    sync.RWMutex
	shape texture.Shape
	// images[layer*mipLevels+level] holds one layer of one level.
	images [][]byte
}

// init registers the software backend on package import.
func init() {
	Register(BackendSoftware, func() Backend {
		return NewSoftwareBackend(texture.DefaultCapabilities())
	})
}

// NewSoftwareBackend creates a CPU backend reporting caps. Any profile
// works: the backend itself can store every format and dimension.
func NewSoftwareBackend(caps texture.Capabilities) *SoftwareBackend {
	return &SoftwareBackend{caps: caps}
}

// Name returns the backend identifier.
func (b *SoftwareBackend) Name() string {
	return BackendSoftware
}

// Init initializes the backend.
func (b *SoftwareBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.textures == nil {
		b.textures = make(map[Handle]*softTexture)
	}
	b.initialized = true
	return nil
}

// Close releases all textures.
func (b *SoftwareBackend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.textures = nil
	b.initialized = false
}

// Capabilities returns the profile given to NewSoftwareBackend.
func (b *SoftwareBackend) Capabilities() texture.Capabilities {
	return b.caps
}

// CreateTexture allocates zeroed storage for every subresource of shape.
func (b *SoftwareBackend) CreateTexture(shape texture.Shape) (Handle, error) {
	if shape.IsZero() {
		return 0, errors.Wrap(texture.ErrInvalidDescriptor, "software: unresolved shape")
	}
	t := &softTexture{shape: shape, images: make([][]byte, shape.Layers()*shape.MipLevels())}
	info := shape.FormatInfo()
	for layer := range shape.Layers() {
		for level := range shape.MipLevels() {
			w, h, d := shape.LevelSize(level)
			t.images[t.index(layer, level)] = make([]byte, info.ImageSize(w, h, d))
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return 0, ErrNotInitialized
	}
	b.next++
	b.textures[b.next] = t
	return b.next, nil
}

// DestroyTexture frees the texture storage.
func (b *SoftwareBackend) DestroyTexture(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.textures[h]; !ok {
		return errors.Wrapf(ErrTextureNotFound, "software: handle %d", h)
	}
	delete(b.textures, h)
	return nil
}

func (b *SoftwareBackend) lookup(h Handle) (*softTexture, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	t, ok := b.textures[h]
	if !ok {
		return nil, errors.Wrapf(ErrTextureNotFound, "software: handle %d", h)
	}
	return t, nil
}

// WriteTexture scatters data into the subresources covered by r.
func (b *SoftwareBackend) WriteTexture(ctx context.Context, h Handle, r texture.Range, data []byte) error {
	t, err := b.lookup(h)
	if err != nil {
		return err
	}
	if err := t.shape.ValidateUpload(r, len(data)); err != nil {
		return err
	}
	subs, err := t.subresources(r)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.copyRows(sub, data[sub.Offset:sub.Offset+sub.Size], true)
	}
	return nil
}

// ReadTexture gathers the subresources covered by r into a packed buffer.
func (b *SoftwareBackend) ReadTexture(ctx context.Context, h Handle, r texture.Range) ([]byte, error) {
	t, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	size, err := t.shape.RangeSizeInBytes(r)
	if err != nil {
		return nil, err
	}
	subs, err := t.subresources(r)
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t.copyRows(sub, out[sub.Offset:sub.Offset+sub.Size], false)
	}
	return out, nil
}

func (t *softTexture) index(layer, level int) int {
	return layer*t.shape.MipLevels() + level
}

// subresources splits r and rejects regions that cut through compressed
// blocks.
func (t *softTexture) subresources(r texture.Range) ([]texture.Subresource, error) {
	subs, err := t.shape.Subresources(r)
	if err != nil {
		return nil, err
	}
	info := t.shape.FormatInfo()
	if info.BlockWidth == 1 && info.BlockHeight == 1 {
		return subs, nil
	}
	for _, sub := range subs {
		sr := sub.Range
		w, h, _ := t.shape.LevelSize(sr.MipLevel())
		alignedX := sr.X()%info.BlockWidth == 0 && sr.Y()%info.BlockHeight == 0
		alignedW := (sr.Width()%info.BlockWidth == 0 || sr.X()+sr.Width() == w) &&
			(sr.Height()%info.BlockHeight == 0 || sr.Y()+sr.Height() == h)
		if !alignedX || !alignedW {
			return nil, errors.Wrapf(texture.ErrInvalidRange,
				"software: range %s is not aligned to %dx%d blocks of %s",
				sr, info.BlockWidth, info.BlockHeight, info.Name)
		}
	}
	return subs, nil
}

// copyRows moves the block rows of sub between buf and the stored image.
// write selects the direction: buf into the image when true.
func (t *softTexture) copyRows(sub texture.Subresource, buf []byte, write bool) {
	sr := sub.Range
	info := t.shape.FormatInfo()
	levelW, levelH, _ := t.shape.LevelSize(sr.MipLevel())
	pitch := info.BytesPerRow(levelW)
	rows := info.BlocksHigh(levelH)
	image := t.images[t.index(sr.Layer(), sr.MipLevel())]

	bx := sr.X() / info.BlockWidth * info.BytesPerBlock
	by := sr.Y() / info.BlockHeight
	for z := range sr.Depth() {
		for row := range sub.RowsPerImage {
			src := (z*sub.RowsPerImage + row) * sub.BytesPerRow
			dst := ((sr.Z()+z)*rows+by+row)*pitch + bx
			if write {
				copy(image[dst:dst+sub.BytesPerRow], buf[src:src+sub.BytesPerRow])
			} else {
				copy(buf[src:src+sub.BytesPerRow], image[dst:dst+sub.BytesPerRow])
			}
		}
	}
}
