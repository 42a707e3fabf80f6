// Package texture computes texture layouts for GPU backends.
//
// # Overview
//
// texture sits between code that creates and uploads textures and the
// native backend that stores them. It resolves texture descriptors against
// backend capabilities, computes mip chains and byte footprints, and
// derives and validates the ranges used by uploads, copies and readbacks.
// Everything in this package is a pure computation over immutable values.
//
// # Quick Start
//
//	import "github.com/gogpu/texture"
//
//	desc := texture.New2DArray(texture.FormatRGBA8Unorm, 8, 8, 2,
//		gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst)
//	shape, err := texture.Resolve(desc, texture.DefaultCapabilities())
//	if err != nil {
//		return err
//	}
//
//	r := texture.NewRange2DArray(4, 4, 4, 4, 1, 1)
//	if err := shape.ValidateRange(r); err != nil {
//		return err // never reaches the backend
//	}
//	size := shape.EstimatedSizeInBytes() // 8*8*4*2 = 512
//
// # Capabilities
//
// Backends differ in how they build mip chains. OpenGL ES 2.0 style
// backends always allocate the full chain down to 1x1, whatever was
// requested; modern backends clamp the request. These differences are
// described by a Capabilities value passed to Resolve instead of
// per-backend code.
//
// # Ranges
//
// A Range is an offset, an extent, a layer window and a mip window.
// AtLayer and AtMipLevel narrow a range to one layer or one level. Bounds
// are always checked against the targeted mip level, which is smaller than
// the base level.
//
// # Architecture
//
// The library is organized into:
//   - texture: formats, capabilities, mip chains, ranges, sizes, validation
//   - backend: storage backends (software, native wgpu HAL) and registry
//   - device: texture objects that validate before touching a backend
//   - budget: memory accounting fed by EstimatedSizeInBytes
//   - cache: sharded LRU used to memoize range validation
//   - mipgen: CPU mip chain generation
package texture

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
