package texture

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
)

const sampled = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst

func mustResolve(t *testing.T, desc Descriptor, caps Capabilities) Shape {
	t.Helper()
	s, err := Resolve(desc, caps)
	if err != nil {
		t.Fatalf("Resolve(%+v) error = %v", desc, err)
	}
	return s
}

func withMips(desc Descriptor, n int) Descriptor {
	desc.MipLevels = n
	return desc
}

func TestResolve(t *testing.T) {
	cube := NewCube(FormatRGBA8Unorm, 64, sampled)
	cubeArray := cube
	cubeArray.Layers = 12
	badCube := cube
	badCube.Height = 32
	sevenFaces := cube
	sevenFaces.Layers = 7
	layered2D := New2D(FormatRGBA8Unorm, 8, 8, sampled)
	layered2D.Layers = 2
	deep2D := New2D(FormatRGBA8Unorm, 8, 8, sampled)
	deep2D.Depth = 4

	tests := []struct {
		name    string
		desc    Descriptor
		caps    Capabilities
		wantErr error
	}{
		{"2d", New2D(FormatRGBA8Unorm, 12, 34, sampled), DefaultCapabilities(), nil},
		{"2d array", New2DArray(FormatRGBA8Unorm, 8, 8, 2, sampled), DefaultCapabilities(), nil},
		{"3d", New3D(FormatRGBA8Unorm, 16, 16, 16, sampled), DefaultCapabilities(), nil},
		{"cube", cube, DefaultCapabilities(), nil},
		{"cube array", cubeArray, DefaultCapabilities(), nil},
		{"gles2 cube", cube, GLES2Capabilities(), nil},
		{"etc2 on gles3", New2D(FormatETC2RGB8Unorm, 64, 64, sampled), GLES3Capabilities(), nil},
		{"packed 16-bit on gles2", New2D(FormatR5G5B5A1Unorm, 128, 333, sampled), GLES2Capabilities(), nil},

		{"zero width", New2D(FormatRGBA8Unorm, 0, 8, sampled), DefaultCapabilities(), ErrInvalidDescriptor},
		{"negative height", New2D(FormatRGBA8Unorm, 8, -1, sampled), DefaultCapabilities(), ErrInvalidDescriptor},
		{"zero layers", New2DArray(FormatRGBA8Unorm, 8, 8, 0, sampled), DefaultCapabilities(), ErrInvalidDescriptor},
		{"layers on 2d", layered2D, DefaultCapabilities(), ErrInvalidDescriptor},
		{"depth on 2d", deep2D, DefaultCapabilities(), ErrInvalidDescriptor},
		{"zero mips", withMips(New2D(FormatRGBA8Unorm, 8, 8, sampled), 0), DefaultCapabilities(), ErrInvalidDescriptor},
		{"cube not square", badCube, DefaultCapabilities(), ErrInvalidDescriptor},
		{"cube seven faces", sevenFaces, DefaultCapabilities(), ErrInvalidDescriptor},
		{"no usage", New2D(FormatRGBA8Unorm, 8, 8, gputypes.TextureUsageNone), DefaultCapabilities(), ErrInvalidDescriptor},
		{"unknown usage", New2D(FormatRGBA8Unorm, 8, 8, 1<<40), DefaultCapabilities(), ErrInvalidDescriptor},
		{"too wide", New2D(FormatRGBA8Unorm, 9000, 8, sampled), DefaultCapabilities(), ErrInvalidDescriptor},
		{"too many layers", New2DArray(FormatRGBA8Unorm, 8, 8, 300, sampled), DefaultCapabilities(), ErrInvalidDescriptor},
		{"3d too deep", New3D(FormatRGBA8Unorm, 8, 8, 4096, sampled), DefaultCapabilities(), ErrInvalidDescriptor},

		{"array on gles2", New2DArray(FormatRGBA8Unorm, 8, 8, 2, sampled), GLES2Capabilities(), ErrCapabilityMismatch},
		{"3d on gles2", New3D(FormatRGBA8Unorm, 8, 8, 8, sampled), GLES2Capabilities(), ErrCapabilityMismatch},
		{"rg on gles2", New2D(FormatRG8Unorm, 8, 8, sampled), GLES2Capabilities(), ErrCapabilityMismatch},
		{"bc on gles3", New2D(FormatBC1RGBAUnorm, 8, 8, sampled), GLES3Capabilities(), ErrCapabilityMismatch},

		{"unknown format", New2D(Format(200), 8, 8, sampled), DefaultCapabilities(), ErrUnsupportedFormat},
		{"undefined format", New2D(FormatUndefined, 8, 8, sampled), DefaultCapabilities(), ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Resolve(tt.desc, tt.caps)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Resolve() error = %v", err)
				}
				if s.IsZero() {
					t.Error("Resolve() returned a zero Shape")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
			if !s.IsZero() {
				t.Errorf("Resolve() returned %v with an error", s)
			}
		})
	}
}

func TestResolveSizeOverflow(t *testing.T) {
	unbounded := Capabilities{PartialMipChain: true, NonPowerOfTwo: true}

	tests := []struct {
		name string
		desc Descriptor
		want int
	}{
		{"product wraps uint64", New2D(FormatRGBA32Float, 1<<31, 1<<31, sampled), 0},
		{"total above MaxInt", New2D(FormatRGBA8Unorm, 1<<31, 1<<30, sampled), 0},
		{"chain above MaxInt", withMips(New2D(FormatRGBA8Unorm, 7<<28, 1<<30, sampled), 2), 0},
		{"large but representable", New2D(FormatRGBA8Unorm, 1<<20, 1<<20, sampled), 1 << 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Resolve(tt.desc, unbounded)
			if tt.want == 0 {
				if !errors.Is(err, ErrInvalidDescriptor) {
					t.Fatalf("Resolve() = %v, %v; want ErrInvalidDescriptor", s, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := s.EstimatedSizeInBytes(); got != tt.want {
				t.Errorf("EstimatedSizeInBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveMipOverride(t *testing.T) {
	desc := withMips(New2D(FormatRGBA8Unorm, 128, 333, sampled), 2)

	s := mustResolve(t, desc, GLES2Capabilities())
	if s.MipLevels() != 9 {
		t.Errorf("GLES2 MipLevels() = %d, want 9", s.MipLevels())
	}
	if s.RequestedMipLevels() != 2 {
		t.Errorf("RequestedMipLevels() = %d, want 2", s.RequestedMipLevels())
	}

	s = mustResolve(t, desc, DefaultCapabilities())
	if s.MipLevels() != 2 {
		t.Errorf("default MipLevels() = %d, want 2", s.MipLevels())
	}
}

func TestShapeAccessors(t *testing.T) {
	desc := withMips(New3D(FormatRGBA16Float, 32, 16, 8, sampled), 3)
	desc.Label = "volume"
	s := mustResolve(t, desc, DefaultCapabilities())

	if s.Label() != "volume" || s.Format() != FormatRGBA16Float || s.Dimension() != Dimension3D {
		t.Errorf("unexpected shape %v", s)
	}
	if s.Width() != 32 || s.Height() != 16 || s.Depth() != 8 || s.Layers() != 1 {
		t.Errorf("size = %dx%dx%d layers %d", s.Width(), s.Height(), s.Depth(), s.Layers())
	}
	if s.Usage() != sampled {
		t.Errorf("Usage() = %v", s.Usage())
	}
	if s.FormatInfo().BytesPerBlock != 8 {
		t.Errorf("FormatInfo().BytesPerBlock = %d", s.FormatInfo().BytesPerBlock)
	}

	w, h, d := s.LevelSize(2)
	if w != 8 || h != 4 || d != 2 {
		t.Errorf("LevelSize(2) = %dx%dx%d, want 8x4x2", w, h, d)
	}
	chain := s.MipChain()
	if len(chain) != 3 || chain[2] != (MipLevel{Level: 2, Width: 8, Height: 4, Depth: 2}) {
		t.Errorf("MipChain() = %+v", chain)
	}
	if got := s.String(); got != "RGBA16Float 3D 32x16x8 layers=1 mips=3" {
		t.Errorf("String() = %q", got)
	}

	again := mustResolve(t, s.Descriptor(), DefaultCapabilities())
	if again != s {
		t.Errorf("Resolve(Descriptor()) = %v, want %v", again, s)
	}
}

func TestDimensionMapping(t *testing.T) {
	tests := []struct {
		dim    Dimension
		layers int
		gpu    gputypes.TextureDimension
		view   gputypes.TextureViewDimension
	}{
		{Dimension2D, 1, gputypes.TextureDimension2D, gputypes.TextureViewDimension2D},
		{Dimension2DArray, 4, gputypes.TextureDimension2D, gputypes.TextureViewDimension2DArray},
		{Dimension3D, 1, gputypes.TextureDimension3D, gputypes.TextureViewDimension3D},
		{DimensionCube, 6, gputypes.TextureDimension2D, gputypes.TextureViewDimensionCube},
		{DimensionCube, 12, gputypes.TextureDimension2D, gputypes.TextureViewDimensionCubeArray},
	}
	for _, tt := range tests {
		t.Run(tt.dim.String(), func(t *testing.T) {
			if got := tt.dim.GPUDimension(); got != tt.gpu {
				t.Errorf("GPUDimension() = %v, want %v", got, tt.gpu)
			}
			if got := tt.dim.ViewDimension(tt.layers); got != tt.view {
				t.Errorf("ViewDimension(%d) = %v, want %v", tt.layers, got, tt.view)
			}
		})
	}
	if got := Dimension(9).String(); got != "Unknown(9)" {
		t.Errorf("String() = %q", got)
	}
}
