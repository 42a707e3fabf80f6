// Package mipgen builds mip chains on the CPU for uploading through a
// texture range.
//
// Level extents come from texture.Shape, so a generated chain always has
// exactly the levels and sizes the backend allocated, including the
// truncated or full chains some capability profiles force.
package mipgen

import (
	"image"
	"image/color"

	"github.com/cockroachdb/errors"
	"golang.org/x/image/draw"

	"github.com/gogpu/texture"
)

// Chain holds one image per mip level of one texture layer.
// Level 0 has the texture's base size.
type Chain struct {
	levels []*image.NRGBA
}

// Options configures chain generation.
type Options struct {
	// Filter resamples each level from the previous one. When nil, levels
	// are built with a 2x2 box filter, and the base image, if its size
	// differs from the texture, is resized with draw.BiLinear.
	Filter draw.Interpolator
}

// Generate builds the chain for shape from base. shape must be a 2D,
// 2D array or cube texture in one of the formats Encode supports.
func Generate(shape texture.Shape, base image.Image, opts Options) (*Chain, error) {
	if err := checkShape(shape); err != nil {
		return nil, err
	}
	if base == nil || base.Bounds().Empty() {
		return nil, errors.Wrap(texture.ErrInvalidDescriptor, "mipgen: empty base image")
	}

	chain := &Chain{levels: make([]*image.NRGBA, shape.MipLevels())}
	w, h, _ := shape.LevelSize(0)
	chain.levels[0] = resize(base, w, h, opts.Filter)
	for level := 1; level < len(chain.levels); level++ {
		w, h, _ := shape.LevelSize(level)
		prev := chain.levels[level-1]
		if opts.Filter != nil {
			chain.levels[level] = resize(prev, w, h, opts.Filter)
		} else {
			chain.levels[level] = downsample(prev, w, h)
		}
	}
	return chain, nil
}

func checkShape(shape texture.Shape) error {
	if shape.IsZero() {
		return errors.Wrap(texture.ErrInvalidDescriptor, "mipgen: unresolved shape")
	}
	if shape.Dimension() == texture.Dimension3D {
		return errors.Wrapf(texture.ErrInvalidDescriptor, "mipgen: %s: 3D textures are not supported", shape)
	}
	if _, ok := encoders[shape.Format()]; !ok {
		return errors.Wrapf(texture.ErrUnsupportedFormat, "mipgen: format %s", shape.Format())
	}
	return nil
}

// resize returns src scaled to w x h as NRGBA. src is copied when it
// already has that size.
func resize(src image.Image, w, h int, filter draw.Interpolator) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	if filter == nil {
		filter = draw.BiLinear
	}
	filter.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

// downsample averages the source pixels under each destination pixel: a
// 2x2 box, reduced to 2x1 or 1x2 once an axis is down to one pixel.
func downsample(src *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	for dy := range h {
		for dx := range w {
			sx, sy := dx*2, dy*2
			var sum [4]uint16
			n := uint16(0)
			for _, p := range [4][2]int{{sx, sy}, {sx + 1, sy}, {sx, sy + 1}, {sx + 1, sy + 1}} {
				if p[0] >= sw || p[1] >= sh {
					continue
				}
				c := src.NRGBAAt(p[0], p[1])
				sum[0] += uint16(c.R)
				sum[1] += uint16(c.G)
				sum[2] += uint16(c.B)
				sum[3] += uint16(c.A)
				n++
			}
			dst.SetNRGBA(dx, dy, color.NRGBA{
				R: uint8(sum[0] / n),
				G: uint8(sum[1] / n),
				B: uint8(sum[2] / n),
				A: uint8(sum[3] / n),
			})
		}
	}
	return dst
}

// NumLevels returns the number of levels in the chain.
func (c *Chain) NumLevels() int {
	if c == nil {
		return 0
	}
	return len(c.levels)
}

// Level returns the image of mip level n, or nil if n is out of range.
func (c *Chain) Level(n int) *image.NRGBA {
	if c == nil || n < 0 || n >= len(c.levels) {
		return nil
	}
	return c.levels[n]
}
