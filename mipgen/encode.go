package mipgen

import (
	"image"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/texture"
)

// encoder appends the texels of img in a texture format.
type encoder func(dst []byte, img *image.NRGBA) []byte

var encoders = map[texture.Format]encoder{
	texture.FormatRGBA8Unorm:     encodeRGBA8,
	texture.FormatRGBA8UnormSrgb: encodeRGBA8,
	texture.FormatBGRA8Unorm:     encodeBGRA8,
	texture.FormatR8Unorm:        encodeR8,
}

// Formats returns the formats Encode supports.
func Formats() []texture.Format {
	return []texture.Format{
		texture.FormatRGBA8Unorm,
		texture.FormatRGBA8UnormSrgb,
		texture.FormatBGRA8Unorm,
		texture.FormatR8Unorm,
	}
}

// Encode packs every level of c in format, level after level. The result
// is the upload buffer for shape.LayerRange(layer, 0, 0) of the shape the
// chain was generated for.
func (c *Chain) Encode(format texture.Format) ([]byte, error) {
	enc, ok := encoders[format]
	if !ok {
		return nil, errors.Wrapf(texture.ErrUnsupportedFormat, "mipgen: format %s", format)
	}
	size := 0
	for _, img := range c.levels {
		size += img.Rect.Dx() * img.Rect.Dy() * 4
	}
	out := make([]byte, 0, size)
	for _, img := range c.levels {
		out = enc(out, img)
	}
	return out, nil
}

// Build generates the chain for shape from base and encodes it in the
// shape's format.
func Build(shape texture.Shape, base image.Image, opts Options) ([]byte, error) {
	chain, err := Generate(shape, base, opts)
	if err != nil {
		return nil, err
	}
	return chain.Encode(shape.Format())
}

// Images built by this package have Stride == 4*width, so Pix is packed.

func encodeRGBA8(dst []byte, img *image.NRGBA) []byte {
	return append(dst, img.Pix...)
}

func encodeBGRA8(dst []byte, img *image.NRGBA) []byte {
	for i := 0; i < len(img.Pix); i += 4 {
		dst = append(dst, img.Pix[i+2], img.Pix[i+1], img.Pix[i], img.Pix[i+3])
	}
	return dst
}

// encodeR8 keeps the red channel.
func encodeR8(dst []byte, img *image.NRGBA) []byte {
	for i := 0; i < len(img.Pix); i += 4 {
		dst = append(dst, img.Pix[i])
	}
	return dst
}
