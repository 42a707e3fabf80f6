package device

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gpucontext"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/texture"
	"github.com/gogpu/texture/backend"
	"github.com/gogpu/texture/mipgen"
)

// Texture is a texture allocated on a device.
//
// Every transfer names a texture.Range and is validated against the
// texture's shape before the backend sees it. Transfers may run
// concurrently; Close waits for the ones in flight.
type Texture struct {
	id    uuid.UUID
	dev   *Device
	shape texture.Shape

	mu      sync.RWMutex
	handle  backend.Handle
	closed  bool
	evicted bool
}

var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// ID returns the texture identity used by the budget and in logs.
func (t *Texture) ID() uuid.UUID { return t.id }

// Shape returns the resolved shape.
func (t *Texture) Shape() texture.Shape { return t.shape }

// Width returns the base level width in pixels.
func (t *Texture) Width() int { return t.shape.Width() }

// Height returns the base level height in pixels.
func (t *Texture) Height() int { return t.shape.Height() }

// FullRange returns the range covering every layer of numMips levels from
// startMip. See texture.Shape.FullRange.
func (t *Texture) FullRange(startMip, numMips int) texture.Range {
	return t.shape.FullRange(startMip, numMips)
}

// LayerRange returns the range covering one layer.
// See texture.Shape.LayerRange.
func (t *Texture) LayerRange(layer, startMip, numMips int) texture.Range {
	return t.shape.LayerRange(layer, startMip, numMips)
}

// ValidateRange checks r against the texture.
func (t *Texture) ValidateRange(r texture.Range) error {
	return t.dev.validate(t.shape, r)
}

// EstimatedSizeInBytes returns the memory the texture accounts for.
func (t *Texture) EstimatedSizeInBytes() int {
	return t.shape.EstimatedSizeInBytes()
}

// IsClosed reports whether the texture was closed or evicted.
func (t *Texture) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// acquire read-locks t for a transfer and returns its handle.
// The caller must RUnlock on success.
func (t *Texture) acquire() (backend.Handle, error) {
	t.mu.RLock()
	if t.closed {
		evicted := t.evicted
		t.mu.RUnlock()
		if evicted {
			return 0, errors.Wrapf(ErrTextureClosed, "texture %s evicted from memory budget", t.id)
		}
		return 0, errors.Wrapf(ErrTextureClosed, "texture %s", t.id)
	}
	return t.handle, nil
}

// Upload writes data, packed as texture.Shape.Subresources describes, to
// r. An invalid range or a wrong byte count is rejected before the
// backend is called.
func (t *Texture) Upload(ctx context.Context, r texture.Range, data []byte) error {
	if err := t.checkUpload(r, len(data)); err != nil {
		t.dev.log.Warn("device: rejected upload", "id", t.id, "range", r.String(), "error", err)
		return err
	}
	h, err := t.acquire()
	if err != nil {
		return err
	}
	defer t.mu.RUnlock()

	if err := t.dev.backend.WriteTexture(ctx, h, r, data); err != nil {
		return errors.Wrapf(err, "upload %s", r)
	}
	t.dev.budget.Touch(t.id)
	t.dev.log.Debug("device: uploaded", "id", t.id, "range", r.String(), "bytes", len(data))
	return nil
}

func (t *Texture) checkUpload(r texture.Range, n int) error {
	if err := t.ValidateRange(r); err != nil {
		return err
	}
	return t.shape.ValidateUpload(r, n)
}

// Download reads r back, packed. Backends without readback return
// backend.ErrNotSupported.
func (t *Texture) Download(ctx context.Context, r texture.Range) ([]byte, error) {
	if err := t.ValidateRange(r); err != nil {
		return nil, err
	}
	h, err := t.acquire()
	if err != nil {
		return nil, err
	}
	defer t.mu.RUnlock()

	data, err := t.dev.backend.ReadTexture(ctx, h, r)
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", r)
	}
	t.dev.budget.Touch(t.id)
	return data, nil
}

// CopyTo copies srcRange of t into dstRange of dst. Both textures must
// share a format, and the ranges must cover the same extent, layer count
// and level count. Both textures must live on the same device.
func (t *Texture) CopyTo(ctx context.Context, dst *Texture, srcRange, dstRange texture.Range) error {
	if dst.dev != t.dev {
		return errors.Wrap(texture.ErrInvalidRange, "copy between devices")
	}
	if t.shape.Format() != dst.shape.Format() {
		return errors.Wrapf(texture.ErrInvalidRange, "copy %s to %s: format mismatch",
			t.shape.Format(), dst.shape.Format())
	}
	if err := t.ValidateRange(srcRange); err != nil {
		return err
	}
	if err := dst.ValidateRange(dstRange); err != nil {
		return err
	}
	if srcRange.Width() != dstRange.Width() || srcRange.Height() != dstRange.Height() ||
		srcRange.Depth() != dstRange.Depth() || srcRange.NumLayers() != dstRange.NumLayers() ||
		srcRange.NumMipLevels() != dstRange.NumMipLevels() {
		return errors.Wrapf(texture.ErrInvalidRange, "copy %s to %s: extent mismatch", srcRange, dstRange)
	}

	data, err := t.Download(ctx, srcRange)
	if err != nil {
		return err
	}
	return dst.Upload(ctx, dstRange, data)
}

// UploadImage generates the mip chain of img and uploads it to every
// level of layer.
func (t *Texture) UploadImage(ctx context.Context, layer int, img image.Image) error {
	r := t.shape.LayerRange(layer, 0, 0)
	if err := t.ValidateRange(r); err != nil {
		return err
	}
	data, err := mipgen.Build(t.shape, img, mipgen.Options{})
	if err != nil {
		return err
	}
	return t.Upload(ctx, r, data)
}

// UploadImages uploads one image per layer, generating mip chains
// concurrently. It stops at the first error.
func (t *Texture) UploadImages(ctx context.Context, images []image.Image) error {
	if len(images) != t.shape.Layers() {
		return errors.Wrapf(texture.ErrInvalidRange, "%d images for %d layers", len(images), t.shape.Layers())
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for layer, img := range images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return t.UploadImage(ctx, layer, img)
		})
	}
	return g.Wait()
}

// UpdateData replaces the base level of layer 0. data must hold exactly
// the packed bytes of that level.
func (t *Texture) UpdateData(data []byte) error {
	return t.Upload(context.Background(), t.shape.LayerRange(0, 0, 1), data)
}

// UpdateRegion replaces a rectangle of the base level of layer 0.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	return t.Upload(context.Background(), texture.NewRange(x, y, 0, w, h, 1, 0, 1), data)
}

// Close frees the texture and its budget reservation. It is idempotent
// and waits for transfers in flight.
func (t *Texture) Close() error {
	return t.release(false)
}

// evict is the budget eviction callback.
func (t *Texture) evict() {
	_ = t.release(true)
}

func (t *Texture) release(evicted bool) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.evicted = evicted
	h := t.handle
	t.mu.Unlock()

	if !evicted {
		t.dev.budget.Release(t.id)
	}
	t.dev.forget(t)

	var err error
	if h != 0 {
		err = t.dev.backend.DestroyTexture(h)
	}
	if evicted {
		t.dev.log.Warn("device: texture evicted", "id", t.id, "shape", t.shape.String())
	} else {
		t.dev.log.Debug("device: closed texture", "id", t.id)
	}
	return err
}
