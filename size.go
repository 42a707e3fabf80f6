package texture

import (
	"math"
	"math/bits"

	"github.com/cockroachdb/errors"
)

// EstimatedSizeInBytes returns the memory footprint of the texture: the sum
// over every resolved mip level of the level's tightly packed size times
// the layer count. No row or allocation padding is added.
func (s Shape) EstimatedSizeInBytes() int {
	total := 0
	for level := range s.mipLevels {
		total += s.levelBytes(level)
	}
	return total * s.layers
}

// levelBytes is the size of one layer of level.
func (s Shape) levelBytes(level int) int {
	w, h, d := s.LevelSize(level)
	return s.info.ImageSize(w, h, d)
}

// LevelSizeInBytes returns the size of mip level level over all layers.
func (s Shape) LevelSizeInBytes(level int) (int, error) {
	if level < 0 || level >= s.mipLevels {
		return 0, errors.Wrapf(ErrInvalidRange, "mip level %d of %d", level, s.mipLevels)
	}
	return s.levelBytes(level) * s.layers, nil
}

// RangeSizeInBytes returns the number of bytes an upload buffer for r must
// hold: the packed size of r's region at each of its levels, times its
// layers. r is validated first.
func (s Shape) RangeSizeInBytes(r Range) (int, error) {
	if err := s.ValidateRange(r); err != nil {
		return 0, err
	}
	total := 0
	for i := range r.numMips {
		lr := r.AtMipLevel(r.mipLevel + i)
		total += s.info.ImageSize(lr.width, lr.height, lr.depth)
	}
	return total * r.numLayers, nil
}

// checkedSize computes EstimatedSizeInBytes for an unresolved geometry in
// uint64, reporting false when any step overflows or the total does not
// fit in an int.
func checkedSize(info FormatInfo, width, height, depth, layers, mips int) (int, bool) {
	mul := func(a, b uint64) (uint64, bool) {
		hi, lo := bits.Mul64(a, b)
		return lo, hi == 0
	}
	bw, bh := uint64(info.BlockWidth), uint64(info.BlockHeight)
	var total uint64
	for level := range mips {
		w := uint64(LevelExtent(width, level))
		h := uint64(LevelExtent(height, level))
		d := uint64(LevelExtent(depth, level))
		n, ok := mul((w+bw-1)/bw, (h+bh-1)/bh)
		if !ok {
			return 0, false
		}
		if n, ok = mul(n, d); !ok {
			return 0, false
		}
		if n, ok = mul(n, uint64(info.BytesPerBlock)); !ok {
			return 0, false
		}
		var carry uint64
		if total, carry = bits.Add64(total, n, 0); carry != 0 {
			return 0, false
		}
	}
	total, ok := mul(total, uint64(layers))
	if !ok || total > math.MaxInt {
		return 0, false
	}
	return int(total), true
}
