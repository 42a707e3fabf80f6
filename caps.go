package texture

import (
	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
)

// Capabilities describes what a backend can do with textures.
// Backends differ in how they build mip chains; that difference is carried
// here as flags instead of per-backend code, so the calculations stay pure.
type Capabilities struct {
	// PartialMipChain is false on backends that always allocate the full
	// chain down to 1x1 (OpenGL ES 2.0 style), whatever was requested.
	PartialMipChain bool

	// NonPowerOfTwo allows mip-mapped textures with NPOT sizes.
	NonPowerOfTwo bool

	// Texture2DArray, Texture3D and TextureCube gate the dimensions.
	Texture2DArray bool
	Texture3D      bool
	TextureCube    bool

	// FormatRG allows the R and RG format families.
	FormatRG bool

	// Features holds the optional device features, such as compressed
	// texture families.
	Features gputypes.Features

	MaxTextureDimension2D uint32
	MaxTextureDimension3D uint32
	MaxTextureArrayLayers uint32
}

func featuresOf(fs ...gputypes.Feature) gputypes.Features {
	var out gputypes.Features
	for _, f := range fs {
		out.Insert(f)
	}
	return out
}

// DefaultCapabilities returns the profile of a modern backend
// (Vulkan, Metal, D3D12).
func DefaultCapabilities() Capabilities {
	limits := gputypes.DefaultLimits()
	return Capabilities{
		PartialMipChain: true,
		NonPowerOfTwo:   true,
		Texture2DArray:  true,
		Texture3D:       true,
		TextureCube:     true,
		FormatRG:        true,
		Features: featuresOf(
			gputypes.FeatureTextureCompressionBC,
			gputypes.FeatureTextureCompressionETC2,
			gputypes.FeatureTextureCompressionASTC,
		),
		MaxTextureDimension2D: limits.MaxTextureDimension2D,
		MaxTextureDimension3D: limits.MaxTextureDimension3D,
		MaxTextureArrayLayers: limits.MaxTextureArrayLayers,
	}
}

// GLES3Capabilities returns the profile of an OpenGL ES 3.x context.
func GLES3Capabilities() Capabilities {
	limits := gputypes.DownlevelLimits()
	return Capabilities{
		PartialMipChain:       true,
		NonPowerOfTwo:         true,
		Texture2DArray:        true,
		Texture3D:             true,
		TextureCube:           true,
		FormatRG:              true,
		Features:              featuresOf(gputypes.FeatureTextureCompressionETC2),
		MaxTextureDimension2D: limits.MaxTextureDimension2D,
		MaxTextureDimension3D: limits.MaxTextureDimension3D,
		MaxTextureArrayLayers: limits.MaxTextureArrayLayers,
	}
}

// GLES2Capabilities returns the profile of an OpenGL ES 2.0 context with
// the NPOT extension: full mip chains only, no arrays, no 3D, no RG.
func GLES2Capabilities() Capabilities {
	limits := gputypes.DownlevelLimits()
	return Capabilities{
		NonPowerOfTwo:         true,
		TextureCube:           true,
		MaxTextureDimension2D: limits.MaxTextureDimension2D,
		MaxTextureArrayLayers: limits.MaxTextureArrayLayers,
	}
}

// CapabilitiesFor returns the usual profile for a backend type.
// OpenGL maps to the ES 3 profile; use GLES2Capabilities explicitly for
// legacy contexts.
func CapabilitiesFor(b gputypes.Backend) Capabilities {
	switch b {
	case gputypes.BackendGL:
		return GLES3Capabilities()
	default:
		return DefaultCapabilities()
	}
}

// SupportsFormat checks that textures of format f can be created.
func (c Capabilities) SupportsFormat(f Format) error {
	info, err := LookupFormat(f)
	if err != nil {
		return err
	}
	if info.RedGreen && !c.FormatRG {
		return errors.Wrapf(ErrCapabilityMismatch, "format %s needs R/RG format support", info.Name)
	}
	if info.Feature != 0 && !c.Features.Contains(info.Feature) {
		return errors.Wrapf(ErrCapabilityMismatch, "format %s needs feature %s", info.Name, info.Feature)
	}
	return nil
}

// SupportsDimension checks that textures of dimension d can be created.
func (c Capabilities) SupportsDimension(d Dimension) error {
	var ok bool
	switch d {
	case Dimension2D:
		ok = true
	case Dimension2DArray:
		ok = c.Texture2DArray
	case Dimension3D:
		ok = c.Texture3D
	case DimensionCube:
		ok = c.TextureCube
	default:
		return errors.Wrapf(ErrInvalidDescriptor, "dimension %d", uint8(d))
	}
	if !ok {
		return errors.Wrapf(ErrCapabilityMismatch, "%s textures not supported", d)
	}
	return nil
}
