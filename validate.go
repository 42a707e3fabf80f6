package texture

import (
	"github.com/cockroachdb/errors"
)

// ValidateRange checks that r lies inside the texture. It must pass before
// any upload, copy or readback reaches a backend.
//
// Bounds are checked against the extent of the mip level the range
// targets, not the base level. For a range spanning several levels, each
// level's scaled region (see Range.AtMipLevel) must fit too.
func (s Shape) ValidateRange(r Range) error {
	if s.IsZero() {
		return errors.Wrap(ErrInvalidRange, "unresolved texture")
	}
	if !r.valid {
		return errors.Wrapf(ErrInvalidRange, "malformed range %s", r)
	}
	if r.layer >= s.layers || r.numLayers > s.layers-r.layer {
		return errors.Wrapf(ErrInvalidRange, "range %s: layers %d+%d, texture has %d",
			r, r.layer, r.numLayers, s.layers)
	}
	if r.mipLevel >= s.mipLevels || r.numMips > s.mipLevels-r.mipLevel {
		return errors.Wrapf(ErrInvalidRange, "range %s: mip levels %d+%d, texture has %d",
			r, r.mipLevel, r.numMips, s.mipLevels)
	}
	for i := range r.numMips {
		level := r.mipLevel + i
		lr := r.AtMipLevel(level)
		w, h, d := s.LevelSize(level)
		if !fits(lr.x, lr.width, w) || !fits(lr.y, lr.height, h) || !fits(lr.z, lr.depth, d) {
			return errors.Wrapf(ErrInvalidRange, "range %s: outside mip level %d (%dx%dx%d)",
				lr, level, w, h, d)
		}
	}
	return nil
}

// fits reports whether [offset, offset+extent) lies in [0, limit) without
// computing offset+extent.
func fits(offset, extent, limit int) bool {
	return offset < limit && extent <= limit-offset
}

// ValidateUpload checks r like ValidateRange and also that n, the size of
// the data supplied for it, is exactly RangeSizeInBytes(r).
func (s Shape) ValidateUpload(r Range, n int) error {
	want, err := s.RangeSizeInBytes(r)
	if err != nil {
		return err
	}
	if n != want {
		return errors.Wrapf(ErrInvalidRange, "range %s needs %d bytes, got %d", r, want, n)
	}
	return nil
}
