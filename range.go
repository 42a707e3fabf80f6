package texture

import (
	"fmt"
)

// Range is a rectangular region of a texture over a window of layers and
// mip levels. It addresses uploads, copies and readbacks.
//
// Range is a value: derivation methods return new ranges and never modify
// the receiver. A range built from a zero or negative extent, or derived
// outside its parent's window, is flagged invalid and fails validation.
// The zero Range is invalid.
type Range struct {
	x, y, z              int
	width, height, depth int
	layer, numLayers     int
	mipLevel, numMips    int
	valid                bool
}

// NewRange returns a 2D array range covering layers
// [layer, layer+numLayers) and mip levels [mipLevel, mipLevel+numMipLevels).
func NewRange(x, y, layer, width, height, numLayers, mipLevel, numMipLevels int) Range {
	r := Range{
		x: x, y: y, z: 0,
		width: width, height: height, depth: 1,
		layer: layer, numLayers: numLayers,
		mipLevel: mipLevel, numMips: numMipLevels,
	}
	r.valid = r.wellFormed()
	return r
}

// NewRange2D returns a range on layer 0 and mip level 0.
func NewRange2D(x, y, width, height int) Range {
	return NewRange(x, y, 0, width, height, 1, 0, 1)
}

// NewRange2DArray returns a range over numLayers layers at mip level 0.
func NewRange2DArray(x, y, width, height, layer, numLayers int) Range {
	return NewRange(x, y, layer, width, height, numLayers, 0, 1)
}

// NewRange3D returns a box of a 3D texture at mip level 0.
func NewRange3D(x, y, z, width, height, depth int) Range {
	r := Range{
		x: x, y: y, z: z,
		width: width, height: height, depth: depth,
		layer: 0, numLayers: 1,
		mipLevel: 0, numMips: 1,
	}
	r.valid = r.wellFormed()
	return r
}

func (r Range) wellFormed() bool {
	return r.x >= 0 && r.y >= 0 && r.z >= 0 && r.layer >= 0 && r.mipLevel >= 0 &&
		r.width > 0 && r.height > 0 && r.depth > 0 && r.numLayers > 0 && r.numMips > 0
}

func (r Range) invalid() Range {
	r.valid = false
	return r
}

// X returns the horizontal offset.
func (r Range) X() int { return r.x }

// Y returns the vertical offset.
func (r Range) Y() int { return r.y }

// Z returns the depth offset; always 0 for 2D textures.
func (r Range) Z() int { return r.z }

// Width returns the horizontal extent.
func (r Range) Width() int { return r.width }

// Height returns the vertical extent.
func (r Range) Height() int { return r.height }

// Depth returns the depth extent; always 1 for 2D textures.
func (r Range) Depth() int { return r.depth }

// Layer returns the first layer.
func (r Range) Layer() int { return r.layer }

// NumLayers returns the number of layers.
func (r Range) NumLayers() int { return r.numLayers }

// MipLevel returns the first mip level.
func (r Range) MipLevel() int { return r.mipLevel }

// NumMipLevels returns the number of mip levels.
func (r Range) NumMipLevels() int { return r.numMips }

// IsValid reports whether r was well formed when built or derived.
// It does not check r against a texture; use Shape.ValidateRange for that.
func (r Range) IsValid() bool { return r.valid }

// Equal reports whether r and o match field by field.
func (r Range) Equal(o Range) bool { return r == o }

// AtLayer returns r restricted to the single layer n. n is an absolute
// layer index and must lie within r's layers, otherwise the result is
// invalid.
func (r Range) AtLayer(n int) Range {
	out := r
	out.layer = n
	out.numLayers = 1
	if !r.valid || n < r.layer || n-r.layer >= r.numLayers {
		return out.invalid()
	}
	return out
}

// AtMipLevel returns r restricted to the single mip level m. m is an
// absolute level index, not an offset from r.MipLevel(): r.AtMipLevel(2)
// addresses level 2 whatever r's first level is. m must lie within r's mip
// levels, otherwise the result is invalid. The offset and extent are scaled down to address the same
// region in the smaller level; extents never drop below 1.
func (r Range) AtMipLevel(m int) Range {
	out := r
	out.mipLevel = m
	out.numMips = 1
	if !r.valid || m < r.mipLevel || m-r.mipLevel >= r.numMips {
		return out.invalid()
	}
	delta := m - r.mipLevel
	out.x = r.x >> uint(delta)
	out.y = r.y >> uint(delta)
	out.z = r.z >> uint(delta)
	out.width = LevelExtent(r.width, delta)
	out.height = LevelExtent(r.height, delta)
	out.depth = LevelExtent(r.depth, delta)
	return out
}

// WithMipLevels returns r with the mip window replaced. Offset and extent
// are kept as given: they address level mipLevel.
func (r Range) WithMipLevels(mipLevel, numMipLevels int) Range {
	out := r
	out.mipLevel = mipLevel
	out.numMips = numMipLevels
	out.valid = r.valid && out.wellFormed()
	return out
}

// String returns a compact description for logs and diagnostics.
func (r Range) String() string {
	s := fmt.Sprintf("(%d,%d,%d %dx%dx%d layers %d+%d mips %d+%d)",
		r.x, r.y, r.z, r.width, r.height, r.depth,
		r.layer, r.numLayers, r.mipLevel, r.numMips)
	if !r.valid {
		s += " invalid"
	}
	return s
}

// FullRange returns the range covering every layer of the texture at the
// mip levels [startMip, startMip+numMips). The extent is that of level
// startMip. numMips == 0 selects every level from startMip on. A window
// outside the texture yields an invalid range.
func (s Shape) FullRange(startMip, numMips int) Range {
	if numMips == 0 {
		numMips = s.mipLevels - startMip
	}
	w, h, d := s.LevelSize(max(startMip, 0))
	r := Range{
		width: w, height: h, depth: d,
		layer: 0, numLayers: s.layers,
		mipLevel: startMip, numMips: numMips,
	}
	r.valid = r.wellFormed() && startMip+numMips <= s.mipLevels
	return r
}

// LayerRange returns FullRange(startMip, numMips).AtLayer(layer).
func (s Shape) LayerRange(layer, startMip, numMips int) Range {
	return s.FullRange(startMip, numMips).AtLayer(layer)
}
