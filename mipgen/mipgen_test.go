package mipgen

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/texture"
)

func resolve(t *testing.T, desc texture.Descriptor, caps texture.Capabilities) texture.Shape {
	t.Helper()
	s, err := texture.Resolve(desc, caps)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return s
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestGenerateLevelSizes(t *testing.T) {
	tests := []struct {
		name   string
		desc   texture.Descriptor
		caps   texture.Capabilities
		sizes  [][2]int
		source image.Rectangle
	}{
		{
			name:   "full chain",
			desc:   withMips(texture.New2D(texture.FormatRGBA8Unorm, 8, 4, gputypes.TextureUsageCopyDst), 4),
			caps:   texture.DefaultCapabilities(),
			sizes:  [][2]int{{8, 4}, {4, 2}, {2, 1}, {1, 1}},
			source: image.Rect(0, 0, 8, 4),
		},
		{
			name:   "odd sizes",
			desc:   withMips(texture.New2D(texture.FormatRGBA8Unorm, 5, 3, gputypes.TextureUsageCopyDst), 3),
			caps:   texture.DefaultCapabilities(),
			sizes:  [][2]int{{5, 3}, {2, 1}, {1, 1}},
			source: image.Rect(0, 0, 5, 3),
		},
		{
			name:   "base resized",
			desc:   withMips(texture.New2D(texture.FormatRGBA8Unorm, 4, 4, gputypes.TextureUsageCopyDst), 2),
			caps:   texture.DefaultCapabilities(),
			sizes:  [][2]int{{4, 4}, {2, 2}},
			source: image.Rect(0, 0, 16, 10),
		},
		{
			name:   "forced full chain",
			desc:   withMips(texture.New2D(texture.FormatRGBA8Unorm, 4, 4, gputypes.TextureUsageCopyDst), 2),
			caps:   texture.GLES2Capabilities(),
			sizes:  [][2]int{{4, 4}, {2, 2}, {1, 1}},
			source: image.Rect(0, 0, 4, 4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := resolve(t, tt.desc, tt.caps)
			base := solid(tt.source.Dx(), tt.source.Dy(), color.NRGBA{R: 10, G: 20, B: 30, A: 255})
			chain, err := Generate(shape, base, Options{})
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if chain.NumLevels() != len(tt.sizes) {
				t.Fatalf("NumLevels() = %d, want %d", chain.NumLevels(), len(tt.sizes))
			}
			for i, want := range tt.sizes {
				b := chain.Level(i).Bounds()
				if b.Dx() != want[0] || b.Dy() != want[1] {
					t.Errorf("level %d = %dx%d, want %dx%d", i, b.Dx(), b.Dy(), want[0], want[1])
				}
			}
			if chain.Level(-1) != nil || chain.Level(len(tt.sizes)) != nil {
				t.Error("Level() out of range should be nil")
			}
		})
	}
}

func withMips(d texture.Descriptor, n int) texture.Descriptor {
	d.MipLevels = n
	return d
}

func TestDownsampleAverages(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 0, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 100, A: 255})
	src.SetNRGBA(0, 1, color.NRGBA{R: 200, A: 255})
	src.SetNRGBA(1, 1, color.NRGBA{R: 100, A: 255})

	got := downsample(src, 1, 1).NRGBAAt(0, 0)
	if got.R != 100 || got.A != 255 {
		t.Errorf("downsample = %+v, want R=100 A=255", got)
	}

	// A one pixel wide column averages pairs vertically.
	col := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	col.SetNRGBA(0, 0, color.NRGBA{G: 10, A: 255})
	col.SetNRGBA(0, 1, color.NRGBA{G: 30, A: 255})
	if got := downsample(col, 1, 1).NRGBAAt(0, 0); got.G != 20 {
		t.Errorf("column downsample G = %d, want 20", got.G)
	}
}

func TestEncode(t *testing.T) {
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	tests := []struct {
		format texture.Format
		texel  []byte
	}{
		{texture.FormatRGBA8Unorm, []byte{1, 2, 3, 4}},
		{texture.FormatRGBA8UnormSrgb, []byte{1, 2, 3, 4}},
		{texture.FormatBGRA8Unorm, []byte{3, 2, 1, 4}},
		{texture.FormatR8Unorm, []byte{1}},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			shape := resolve(t, withMips(texture.New2D(tt.format, 2, 2, gputypes.TextureUsageCopyDst), 2),
				texture.DefaultCapabilities())
			data, err := Build(shape, solid(2, 2, c), Options{})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			want, err := shape.RangeSizeInBytes(shape.LayerRange(0, 0, 0))
			if err != nil {
				t.Fatal(err)
			}
			if len(data) != want {
				t.Fatalf("len = %d, want %d", len(data), want)
			}
			for i := 0; i < len(data); i += len(tt.texel) {
				for j, v := range tt.texel {
					if data[i+j] != v {
						t.Fatalf("byte %d = %d, want %d", i+j, data[i+j], v)
					}
				}
			}
		})
	}
}

func TestGenerateWithFilter(t *testing.T) {
	shape := resolve(t, withMips(texture.New2D(texture.FormatRGBA8Unorm, 8, 8, gputypes.TextureUsageCopyDst), 4),
		texture.DefaultCapabilities())
	c := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	chain, err := Generate(shape, solid(8, 8, c), Options{Filter: draw.CatmullRom})
	if err != nil {
		t.Fatal(err)
	}
	last := chain.Level(chain.NumLevels() - 1)
	got := last.NRGBAAt(0, 0)
	near := func(a, b uint8) bool { return a >= b-1 && a <= b+1 }
	if !near(got.R, c.R) || !near(got.G, c.G) || !near(got.B, c.B) || got.A != c.A {
		t.Errorf("1x1 level = %+v, want %+v", got, c)
	}
}

func TestGenerateRejects(t *testing.T) {
	caps := texture.DefaultCapabilities()
	img := solid(4, 4, color.NRGBA{A: 255})
	tests := []struct {
		name  string
		shape texture.Shape
		base  image.Image
		code  texture.Code
	}{
		{"zero shape", texture.Shape{}, img, texture.CodeInvalidDescriptor},
		{"3D", resolve(t, texture.New3D(texture.FormatRGBA8Unorm, 4, 4, 4, gputypes.TextureUsageCopyDst), caps), img, texture.CodeInvalidDescriptor},
		{"compressed", resolve(t, texture.New2D(texture.FormatBC1RGBAUnorm, 4, 4, gputypes.TextureUsageCopyDst), caps), img, texture.CodeUnsupportedFormat},
		{"float", resolve(t, texture.New2D(texture.FormatRGBA16Float, 4, 4, gputypes.TextureUsageCopyDst), caps), img, texture.CodeUnsupportedFormat},
		{"nil base", resolve(t, texture.New2D(texture.FormatRGBA8Unorm, 4, 4, gputypes.TextureUsageCopyDst), caps), nil, texture.CodeInvalidDescriptor},
		{"empty base", resolve(t, texture.New2D(texture.FormatRGBA8Unorm, 4, 4, gputypes.TextureUsageCopyDst), caps), image.NewNRGBA(image.Rectangle{}), texture.CodeInvalidDescriptor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(tt.shape, tt.base, Options{}); texture.CodeOf(err) != tt.code {
				t.Errorf("Generate() error = %v, want code %v", err, tt.code)
			}
		})
	}

	var chain Chain
	if _, err := chain.Encode(texture.FormatRGBA16Float); texture.CodeOf(err) != texture.CodeUnsupportedFormat {
		t.Errorf("Encode(RGBA16Float) error = %v", err)
	}
}
