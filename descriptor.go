package texture

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
)

// Dimension is the dimensionality of a texture.
type Dimension uint8

const (
	// Dimension2D is a single 2D image.
	Dimension2D Dimension = iota
	// Dimension2DArray is a stack of same-sized 2D layers.
	Dimension2DArray
	// Dimension3D is a volume; its depth shrinks with each mip level.
	Dimension3D
	// DimensionCube is a cube map. Faces are stored as layers, six per cube.
	DimensionCube
)

// String returns the dimension name.
func (d Dimension) String() string {
	switch d {
	case Dimension2D:
		return "2D"
	case Dimension2DArray:
		return "2DArray"
	case Dimension3D:
		return "3D"
	case DimensionCube:
		return "Cube"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(d))
	}
}

// GPUDimension returns the WebGPU storage dimension.
func (d Dimension) GPUDimension() gputypes.TextureDimension {
	if d == Dimension3D {
		return gputypes.TextureDimension3D
	}
	return gputypes.TextureDimension2D
}

// ViewDimension returns the WebGPU view dimension for the whole texture.
func (d Dimension) ViewDimension(layers int) gputypes.TextureViewDimension {
	switch d {
	case Dimension2DArray:
		return gputypes.TextureViewDimension2DArray
	case Dimension3D:
		return gputypes.TextureViewDimension3D
	case DimensionCube:
		if layers > 6 {
			return gputypes.TextureViewDimensionCubeArray
		}
		return gputypes.TextureViewDimensionCube
	default:
		return gputypes.TextureViewDimension2D
	}
}

// Descriptor is a texture creation request. It is resolved against backend
// capabilities with Resolve, which fixes the effective mip level count.
type Descriptor struct {
	Label     string
	Format    Format
	Dimension Dimension

	Width  int
	Height int
	// Depth is only used by 3D textures. Zero means 1.
	Depth int
	// Layers is the array layer count. Cube textures use six layers per cube.
	Layers int

	// MipLevels is the requested mip level count.
	MipLevels int

	Usage gputypes.TextureUsage
}

// New2D returns a descriptor for a single-level 2D texture.
func New2D(format Format, width, height int, usage gputypes.TextureUsage) Descriptor {
	return Descriptor{
		Format:    format,
		Dimension: Dimension2D,
		Width:     width,
		Height:    height,
		Layers:    1,
		MipLevels: 1,
		Usage:     usage,
	}
}

// New2DArray returns a descriptor for a single-level 2D array texture.
func New2DArray(format Format, width, height, layers int, usage gputypes.TextureUsage) Descriptor {
	return Descriptor{
		Format:    format,
		Dimension: Dimension2DArray,
		Width:     width,
		Height:    height,
		Layers:    layers,
		MipLevels: 1,
		Usage:     usage,
	}
}

// New3D returns a descriptor for a single-level 3D texture.
func New3D(format Format, width, height, depth int, usage gputypes.TextureUsage) Descriptor {
	return Descriptor{
		Format:    format,
		Dimension: Dimension3D,
		Width:     width,
		Height:    height,
		Depth:     depth,
		Layers:    1,
		MipLevels: 1,
		Usage:     usage,
	}
}

// NewCube returns a descriptor for a single-level cube texture.
func NewCube(format Format, size int, usage gputypes.TextureUsage) Descriptor {
	return Descriptor{
		Format:    format,
		Dimension: DimensionCube,
		Width:     size,
		Height:    size,
		Layers:    6,
		MipLevels: 1,
		Usage:     usage,
	}
}

// Shape is a resolved texture descriptor. It is immutable: all fields are
// private and a change of size requires resolving a new Shape. Shapes are
// safe to share between goroutines.
type Shape struct {
	label     string
	format    Format
	info      FormatInfo
	dimension Dimension
	width     int
	height    int
	depth     int
	layers    int
	mipLevels int
	requested int
	usage     gputypes.TextureUsage
}

// Resolve checks desc against caps and computes the effective mip level
// count.
func Resolve(desc Descriptor, caps Capabilities) (Shape, error) {
	info, err := LookupFormat(desc.Format)
	if err != nil {
		return Shape{}, err
	}
	if err := caps.SupportsFormat(desc.Format); err != nil {
		return Shape{}, err
	}
	if err := caps.SupportsDimension(desc.Dimension); err != nil {
		return Shape{}, err
	}

	depth := desc.Depth
	if depth == 0 {
		depth = 1
	}

	var reason string
	switch {
	case desc.Width < 1, desc.Height < 1, depth < 1:
		reason = "invalid size"
	case desc.Dimension != Dimension3D && depth != 1:
		reason = "depth on a non-3D texture"
	case desc.Layers < 1:
		reason = "invalid layer count"
	case desc.Dimension == Dimension2D && desc.Layers != 1,
		desc.Dimension == Dimension3D && desc.Layers != 1:
		reason = "layers on a non-array texture"
	case desc.Dimension == DimensionCube && desc.Width != desc.Height:
		reason = "cube's width and height differ"
	case desc.Dimension == DimensionCube && desc.Layers%6 != 0:
		reason = "cube's layer count not a multiple of 6"
	case desc.MipLevels < 1:
		reason = "invalid mip level count"
	case desc.Usage == gputypes.TextureUsageNone, desc.Usage.ContainsUnknownBits():
		reason = "invalid usage"
	}
	if reason != "" {
		return Shape{}, errors.Wrapf(ErrInvalidDescriptor, "%s: %dx%dx%d, %d layers, %d mip levels",
			reason, desc.Width, desc.Height, depth, desc.Layers, desc.MipLevels)
	}

	if err := checkLimits(desc, depth, caps); err != nil {
		return Shape{}, err
	}

	mips, err := ResolveMipLevels(desc.Width, desc.Height, depth, desc.MipLevels, caps)
	if err != nil {
		return Shape{}, err
	}
	if _, ok := checkedSize(info, desc.Width, desc.Height, depth, desc.Layers, mips); !ok {
		return Shape{}, errors.Wrapf(ErrInvalidDescriptor, "%s %dx%dx%d, %d layers, %d mip levels: size overflows",
			desc.Format, desc.Width, desc.Height, depth, desc.Layers, mips)
	}

	return Shape{
		label:     desc.Label,
		format:    desc.Format,
		info:      info,
		dimension: desc.Dimension,
		width:     desc.Width,
		height:    desc.Height,
		depth:     depth,
		layers:    desc.Layers,
		mipLevels: mips,
		requested: desc.MipLevels,
		usage:     desc.Usage,
	}, nil
}

// checkLimits rejects sizes above the backend limits. A zero limit means
// the limit is unknown and not enforced.
func checkLimits(desc Descriptor, depth int, caps Capabilities) error {
	exceeds := func(v int, limit uint32) bool {
		return limit != 0 && uint64(v) > uint64(limit)
	}
	if desc.Dimension == Dimension3D {
		if exceeds(desc.Width, caps.MaxTextureDimension3D) || exceeds(desc.Height, caps.MaxTextureDimension3D) ||
			exceeds(depth, caps.MaxTextureDimension3D) {
			return errors.Wrapf(ErrInvalidDescriptor, "size %dx%dx%d above limit %d",
				desc.Width, desc.Height, depth, caps.MaxTextureDimension3D)
		}
		return nil
	}
	if exceeds(desc.Width, caps.MaxTextureDimension2D) || exceeds(desc.Height, caps.MaxTextureDimension2D) {
		return errors.Wrapf(ErrInvalidDescriptor, "size %dx%d above limit %d",
			desc.Width, desc.Height, caps.MaxTextureDimension2D)
	}
	if exceeds(desc.Layers, caps.MaxTextureArrayLayers) {
		return errors.Wrapf(ErrInvalidDescriptor, "%d layers above limit %d",
			desc.Layers, caps.MaxTextureArrayLayers)
	}
	return nil
}

// Label returns the debug label.
func (s Shape) Label() string { return s.label }

// Format returns the pixel format.
func (s Shape) Format() Format { return s.format }

// FormatInfo returns the format table entry.
func (s Shape) FormatInfo() FormatInfo { return s.info }

// Dimension returns the texture dimensionality.
func (s Shape) Dimension() Dimension { return s.dimension }

// Width returns the base level width.
func (s Shape) Width() int { return s.width }

// Height returns the base level height.
func (s Shape) Height() int { return s.height }

// Depth returns the base level depth; 1 for everything but 3D textures.
func (s Shape) Depth() int { return s.depth }

// Layers returns the array layer count.
func (s Shape) Layers() int { return s.layers }

// MipLevels returns the effective mip level count.
func (s Shape) MipLevels() int { return s.mipLevels }

// RequestedMipLevels returns the mip level count of the descriptor.
func (s Shape) RequestedMipLevels() int { return s.requested }

// Usage returns the usage flags.
func (s Shape) Usage() gputypes.TextureUsage { return s.usage }

// IsZero reports whether s is the zero Shape, as returned with errors.
func (s Shape) IsZero() bool { return s.mipLevels == 0 }

// LevelSize returns the extent of mip level level.
func (s Shape) LevelSize(level int) (width, height, depth int) {
	return LevelExtent(s.width, level), LevelExtent(s.height, level), LevelExtent(s.depth, level)
}

// MipChain lists every resolved mip level.
func (s Shape) MipChain() []MipLevel {
	return MipLevels(s.width, s.height, s.depth, s.mipLevels)
}

// Descriptor returns a descriptor that resolves to s on a backend with
// partial mip chain support.
func (s Shape) Descriptor() Descriptor {
	depth := 0
	if s.dimension == Dimension3D {
		depth = s.depth
	}
	return Descriptor{
		Label:     s.label,
		Format:    s.format,
		Dimension: s.dimension,
		Width:     s.width,
		Height:    s.height,
		Depth:     depth,
		Layers:    s.layers,
		MipLevels: s.mipLevels,
		Usage:     s.usage,
	}
}

// String returns a short human-readable description.
func (s Shape) String() string {
	return fmt.Sprintf("%s %s %dx%dx%d layers=%d mips=%d",
		s.format, s.dimension, s.width, s.height, s.depth, s.layers, s.mipLevels)
}
