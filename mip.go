package texture

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// MipLevel is the extent of one level of a mip chain.
type MipLevel struct {
	Level  int
	Width  int
	Height int
	Depth  int
}

// MaxMipLevels returns the length of the full chain for the given base
// size: floor(log2(max(width, height, depth))) + 1.
// Sizes below 1 count as 1.
func MaxMipLevels(width, height, depth int) int {
	m := max(width, height, depth, 1)
	return bits.Len(uint(m))
}

// LevelExtent returns the size of base at level: base >> level, never
// below 1.
func LevelExtent(base, level int) int {
	if level >= bits.UintSize {
		return 1
	}
	return max(1, base>>uint(level))
}

// MipLevels lists count levels of the chain starting at base size
// width x height x depth.
func MipLevels(width, height, depth, count int) []MipLevel {
	if count <= 0 {
		return nil
	}
	levels := make([]MipLevel, count)
	for i := range levels {
		levels[i] = MipLevel{
			Level:  i,
			Width:  LevelExtent(width, i),
			Height: LevelExtent(height, i),
			Depth:  LevelExtent(depth, i),
		}
	}
	return levels
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// ResolveMipLevels returns the number of mip levels a backend with caps
// will actually allocate for the requested count.
//
// Backends without partial mip chain support always allocate the full
// chain, even when fewer levels were requested. Otherwise the request is
// clamped to the full chain length.
func ResolveMipLevels(width, height, depth, requested int, caps Capabilities) (int, error) {
	if width < 1 || height < 1 || depth < 1 {
		return 0, errors.Wrapf(ErrInvalidDescriptor, "size %dx%dx%d", width, height, depth)
	}
	if requested < 1 {
		return 0, errors.Wrapf(ErrInvalidDescriptor, "mip level count %d", requested)
	}

	full := MaxMipLevels(width, height, depth)
	n := full
	if caps.PartialMipChain {
		n = min(requested, full)
	}

	if n > 1 && !caps.NonPowerOfTwo &&
		(!isPowerOfTwo(width) || !isPowerOfTwo(height) || !isPowerOfTwo(depth)) {
		return 0, errors.Wrapf(ErrCapabilityMismatch,
			"%d mip levels on non-power-of-two size %dx%dx%d", n, width, height, depth)
	}
	return n, nil
}
