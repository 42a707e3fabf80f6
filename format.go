package texture

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
)

// Format identifies a texture pixel format.
//
// The set is closed: every value below has an entry in the format table,
// and anything else is rejected with ErrUnsupportedFormat.
type Format uint8

const (
	// FormatUndefined is the zero value and is never a valid format.
	FormatUndefined Format = iota

	FormatR8Unorm
	FormatRG8Unorm
	FormatRGBA8Unorm
	FormatRGBA8UnormSrgb
	FormatBGRA8Unorm

	// Packed 16-bit formats. They exist on OpenGL ES but not in WebGPU.
	FormatR5G5B5A1Unorm
	FormatB5G6R5Unorm
	FormatRGBA4Unorm

	FormatR16Float
	FormatRG16Float
	FormatRGBA16Float
	FormatR32Float
	FormatRG32Float
	FormatRGBA32Float
	FormatR32Uint
	FormatRGB10A2Unorm

	FormatDepth16Unorm
	FormatDepth32Float
	FormatDepth24PlusStencil8
	FormatStencil8

	// Block-compressed formats.
	FormatBC1RGBAUnorm
	FormatBC3RGBAUnorm
	FormatBC7RGBAUnorm
	FormatETC2RGB8Unorm
	FormatETC2RGBA8Unorm
	FormatASTC4x4Unorm
	FormatASTC8x8Unorm

	formatCount
)

// FormatInfo describes the memory layout of a format.
// Uncompressed formats use 1x1 blocks, so BytesPerBlock is the size of
// one pixel.
type FormatInfo struct {
	Name          string
	BytesPerBlock int
	BlockWidth    int
	BlockHeight   int
	Channels      int
	Compressed    bool

	// GPU is the WebGPU equivalent, or gputypes.TextureFormatUndefined.
	GPU gputypes.TextureFormat

	// Feature is the device feature required to create textures of this
	// format, or zero when the format is core.
	Feature gputypes.Feature

	// RedGreen marks R and RG formats, which legacy GL profiles lack.
	RedGreen bool
}

// formatTable is indexed by Format. Entries with a zero BytesPerBlock are
// holes and make the format unsupported.
var formatTable = [formatCount]FormatInfo{
	FormatR8Unorm:        {Name: "R8Unorm", BytesPerBlock: 1, BlockWidth: 1, BlockHeight: 1, Channels: 1, GPU: gputypes.TextureFormatR8Unorm, RedGreen: true},
	FormatRG8Unorm:       {Name: "RG8Unorm", BytesPerBlock: 2, BlockWidth: 1, BlockHeight: 1, Channels: 2, GPU: gputypes.TextureFormatRG8Unorm, RedGreen: true},
	FormatRGBA8Unorm:     {Name: "RGBA8Unorm", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 4, GPU: gputypes.TextureFormatRGBA8Unorm},
	FormatRGBA8UnormSrgb: {Name: "RGBA8UnormSrgb", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 4, GPU: gputypes.TextureFormatRGBA8UnormSrgb},
	FormatBGRA8Unorm:     {Name: "BGRA8Unorm", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 4, GPU: gputypes.TextureFormatBGRA8Unorm},

	FormatR5G5B5A1Unorm: {Name: "R5G5B5A1Unorm", BytesPerBlock: 2, BlockWidth: 1, BlockHeight: 1, Channels: 4},
	FormatB5G6R5Unorm:   {Name: "B5G6R5Unorm", BytesPerBlock: 2, BlockWidth: 1, BlockHeight: 1, Channels: 3},
	FormatRGBA4Unorm:    {Name: "RGBA4Unorm", BytesPerBlock: 2, BlockWidth: 1, BlockHeight: 1, Channels: 4},

	FormatR16Float:     {Name: "R16Float", BytesPerBlock: 2, BlockWidth: 1, BlockHeight: 1, Channels: 1, GPU: gputypes.TextureFormatR16Float, RedGreen: true},
	FormatRG16Float:    {Name: "RG16Float", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 2, GPU: gputypes.TextureFormatRG16Float, RedGreen: true},
	FormatRGBA16Float:  {Name: "RGBA16Float", BytesPerBlock: 8, BlockWidth: 1, BlockHeight: 1, Channels: 4, GPU: gputypes.TextureFormatRGBA16Float},
	FormatR32Float:     {Name: "R32Float", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 1, GPU: gputypes.TextureFormatR32Float, RedGreen: true},
	FormatRG32Float:    {Name: "RG32Float", BytesPerBlock: 8, BlockWidth: 1, BlockHeight: 1, Channels: 2, GPU: gputypes.TextureFormatRG32Float, RedGreen: true},
	FormatRGBA32Float:  {Name: "RGBA32Float", BytesPerBlock: 16, BlockWidth: 1, BlockHeight: 1, Channels: 4, GPU: gputypes.TextureFormatRGBA32Float},
	FormatR32Uint:      {Name: "R32Uint", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 1, GPU: gputypes.TextureFormatR32Uint, RedGreen: true},
	FormatRGB10A2Unorm: {Name: "RGB10A2Unorm", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 4, GPU: gputypes.TextureFormatRGB10A2Unorm},

	FormatDepth16Unorm:        {Name: "Depth16Unorm", BytesPerBlock: 2, BlockWidth: 1, BlockHeight: 1, Channels: 1, GPU: gputypes.TextureFormatDepth16Unorm},
	FormatDepth32Float:        {Name: "Depth32Float", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 1, GPU: gputypes.TextureFormatDepth32Float},
	FormatDepth24PlusStencil8: {Name: "Depth24PlusStencil8", BytesPerBlock: 4, BlockWidth: 1, BlockHeight: 1, Channels: 2, GPU: gputypes.TextureFormatDepth24PlusStencil8},
	FormatStencil8:            {Name: "Stencil8", BytesPerBlock: 1, BlockWidth: 1, BlockHeight: 1, Channels: 1, GPU: gputypes.TextureFormatStencil8},

	FormatBC1RGBAUnorm:   {Name: "BC1RGBAUnorm", BytesPerBlock: 8, BlockWidth: 4, BlockHeight: 4, Channels: 4, Compressed: true, GPU: gputypes.TextureFormatBC1RGBAUnorm, Feature: gputypes.FeatureTextureCompressionBC},
	FormatBC3RGBAUnorm:   {Name: "BC3RGBAUnorm", BytesPerBlock: 16, BlockWidth: 4, BlockHeight: 4, Channels: 4, Compressed: true, GPU: gputypes.TextureFormatBC3RGBAUnorm, Feature: gputypes.FeatureTextureCompressionBC},
	FormatBC7RGBAUnorm:   {Name: "BC7RGBAUnorm", BytesPerBlock: 16, BlockWidth: 4, BlockHeight: 4, Channels: 4, Compressed: true, GPU: gputypes.TextureFormatBC7RGBAUnorm, Feature: gputypes.FeatureTextureCompressionBC},
	FormatETC2RGB8Unorm:  {Name: "ETC2RGB8Unorm", BytesPerBlock: 8, BlockWidth: 4, BlockHeight: 4, Channels: 3, Compressed: true, GPU: gputypes.TextureFormatETC2RGB8Unorm, Feature: gputypes.FeatureTextureCompressionETC2},
	FormatETC2RGBA8Unorm: {Name: "ETC2RGBA8Unorm", BytesPerBlock: 16, BlockWidth: 4, BlockHeight: 4, Channels: 4, Compressed: true, GPU: gputypes.TextureFormatETC2RGBA8Unorm, Feature: gputypes.FeatureTextureCompressionETC2},
	FormatASTC4x4Unorm:   {Name: "ASTC4x4Unorm", BytesPerBlock: 16, BlockWidth: 4, BlockHeight: 4, Channels: 4, Compressed: true, GPU: gputypes.TextureFormatASTC4x4Unorm, Feature: gputypes.FeatureTextureCompressionASTC},
	FormatASTC8x8Unorm:   {Name: "ASTC8x8Unorm", BytesPerBlock: 16, BlockWidth: 8, BlockHeight: 8, Channels: 4, Compressed: true, GPU: gputypes.TextureFormatASTC8x8Unorm, Feature: gputypes.FeatureTextureCompressionASTC},
}

// LookupFormat returns the table entry for f.
func LookupFormat(f Format) (FormatInfo, error) {
	if f >= formatCount || formatTable[f].BytesPerBlock == 0 {
		return FormatInfo{}, errors.Wrapf(ErrUnsupportedFormat, "format %d", uint8(f))
	}
	return formatTable[f], nil
}

// Formats returns every supported format in table order.
func Formats() []Format {
	out := make([]Format, 0, formatCount)
	for f := FormatUndefined; f < formatCount; f++ {
		if formatTable[f].BytesPerBlock != 0 {
			out = append(out, f)
		}
	}
	return out
}

// String returns the format name.
func (f Format) String() string {
	if info, err := LookupFormat(f); err == nil {
		return info.Name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(f))
}

// BytesPerPixel returns the size of one pixel, or of one block for
// compressed formats. It never returns zero without an error.
func (f Format) BytesPerPixel() (int, error) {
	info, err := LookupFormat(f)
	if err != nil {
		return 0, err
	}
	return info.BytesPerBlock, nil
}

// IsCompressed reports whether f is block-compressed.
// Unknown formats report false; size computations go through LookupFormat
// and fail there.
func (f Format) IsCompressed() bool {
	return f < formatCount && formatTable[f].Compressed
}

// GPUFormat returns the WebGPU equivalent of f.
// The second result is false for formats WebGPU does not define.
func (f Format) GPUFormat() (gputypes.TextureFormat, bool) {
	info, err := LookupFormat(f)
	if err != nil || info.GPU == gputypes.TextureFormatUndefined {
		return gputypes.TextureFormatUndefined, false
	}
	return info.GPU, true
}

// FormatFromGPU maps a WebGPU format back to a Format.
func FormatFromGPU(g gputypes.TextureFormat) (Format, error) {
	if g != gputypes.TextureFormatUndefined {
		for f := FormatUndefined; f < formatCount; f++ {
			if formatTable[f].GPU == g {
				return f, nil
			}
		}
	}
	return FormatUndefined, errors.Wrapf(ErrUnsupportedFormat, "gpu format %s", g)
}

// ParseFormat looks a format up by name, ignoring case.
func ParseFormat(name string) (Format, error) {
	for f := FormatUndefined; f < formatCount; f++ {
		if formatTable[f].BytesPerBlock != 0 && strings.EqualFold(formatTable[f].Name, name) {
			return f, nil
		}
	}
	return FormatUndefined, errors.Wrapf(ErrUnsupportedFormat, "format %q", name)
}

// BlocksWide returns the number of block columns covering width pixels.
func (fi FormatInfo) BlocksWide(width int) int {
	return (width + fi.BlockWidth - 1) / fi.BlockWidth
}

// BlocksHigh returns the number of block rows covering height pixels.
func (fi FormatInfo) BlocksHigh(height int) int {
	return (height + fi.BlockHeight - 1) / fi.BlockHeight
}

// BytesPerRow returns the tightly packed size of one row of blocks.
func (fi FormatInfo) BytesPerRow(width int) int {
	return fi.BlocksWide(width) * fi.BytesPerBlock
}

// ImageSize returns the tightly packed size of a width x height x depth
// image. Partial blocks at the edges count as whole blocks.
func (fi FormatInfo) ImageSize(width, height, depth int) int {
	return fi.BytesPerRow(width) * fi.BlocksHigh(height) * depth
}
