package texture

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"
)

func TestBytesPerPixel(t *testing.T) {
	tests := []struct {
		format Format
		want   int
	}{
		{FormatR8Unorm, 1},
		{FormatRG8Unorm, 2},
		{FormatR5G5B5A1Unorm, 2},
		{FormatB5G6R5Unorm, 2},
		{FormatRGBA8Unorm, 4},
		{FormatBGRA8Unorm, 4},
		{FormatRGBA16Float, 8},
		{FormatRGBA32Float, 16},
		{FormatDepth24PlusStencil8, 4},
		{FormatBC1RGBAUnorm, 8},
		{FormatBC7RGBAUnorm, 16},
		{FormatASTC8x8Unorm, 16},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got, err := tt.format.BytesPerPixel()
			if err != nil {
				t.Fatalf("BytesPerPixel() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBytesPerPixelUnknown(t *testing.T) {
	for _, f := range []Format{FormatUndefined, formatCount, Format(200)} {
		got, err := f.BytesPerPixel()
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%v: BytesPerPixel() error = %v, want ErrUnsupportedFormat", f, err)
		}
		if got != 0 {
			t.Errorf("%v: BytesPerPixel() = %d with an error", f, got)
		}
	}
}

func TestIsCompressed(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatRGBA8Unorm, false},
		{FormatR8Unorm, false},
		{FormatDepth32Float, false},
		{FormatBC1RGBAUnorm, true},
		{FormatETC2RGB8Unorm, true},
		{FormatASTC4x4Unorm, true},
		{Format(200), false},
	}
	for _, tt := range tests {
		if got := tt.format.IsCompressed(); got != tt.want {
			t.Errorf("%v.IsCompressed() = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestFormatTableConsistent(t *testing.T) {
	formats := Formats()
	if len(formats) != int(formatCount)-1 {
		t.Fatalf("Formats() returned %d formats, want %d", len(formats), formatCount-1)
	}
	for _, f := range formats {
		info, err := LookupFormat(f)
		if err != nil {
			t.Fatalf("LookupFormat(%d) error = %v", f, err)
		}
		if info.BytesPerBlock <= 0 || info.BlockWidth < 1 || info.BlockHeight < 1 || info.Channels < 1 {
			t.Errorf("%s: bad layout %+v", f, info)
		}
		if info.Compressed != (info.BlockWidth > 1) {
			t.Errorf("%s: Compressed = %v with %dx%d blocks", f, info.Compressed, info.BlockWidth, info.BlockHeight)
		}
		parsed, err := ParseFormat(info.Name)
		if err != nil || parsed != f {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", info.Name, parsed, err, f)
		}
	}
}

func TestParseFormatIgnoresCase(t *testing.T) {
	got, err := ParseFormat("rgba8unorm")
	if err != nil {
		t.Fatalf("ParseFormat() error = %v", err)
	}
	if got != FormatRGBA8Unorm {
		t.Errorf("ParseFormat() = %v, want RGBA8Unorm", got)
	}

	if _, err := ParseFormat("rgb9e5"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseFormat(rgb9e5) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestFormatString(t *testing.T) {
	if got := FormatBC3RGBAUnorm.String(); got != "BC3RGBAUnorm" {
		t.Errorf("String() = %q", got)
	}
	if got := Format(200).String(); got != "Unknown(200)" {
		t.Errorf("String() = %q, want Unknown(200)", got)
	}
}

func TestGPUFormat(t *testing.T) {
	g, ok := FormatRGBA8Unorm.GPUFormat()
	if !ok || g != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("GPUFormat() = %v, %v", g, ok)
	}

	if _, ok := FormatR5G5B5A1Unorm.GPUFormat(); ok {
		t.Error("R5G5B5A1Unorm has no WebGPU equivalent")
	}

	for _, f := range Formats() {
		g, ok := f.GPUFormat()
		if !ok {
			continue
		}
		back, err := FormatFromGPU(g)
		if err != nil || back != f {
			t.Errorf("FormatFromGPU(%v) = %v, %v; want %v", g, back, err, f)
		}
	}

	if _, err := FormatFromGPU(gputypes.TextureFormatUndefined); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatFromGPU(Undefined) error = %v", err)
	}
}

func TestFormatInfoImageSize(t *testing.T) {
	tests := []struct {
		name                 string
		format               Format
		width, height, depth int
		want                 int
	}{
		{"rgba8 12x34", FormatRGBA8Unorm, 12, 34, 1, 12 * 34 * 4},
		{"r8 odd", FormatR8Unorm, 7, 3, 1, 21},
		{"rgba8 volume", FormatRGBA8Unorm, 4, 4, 4, 256},
		{"bc1 exact blocks", FormatBC1RGBAUnorm, 8, 8, 1, 4 * 8},
		{"bc1 partial blocks", FormatBC1RGBAUnorm, 5, 5, 1, 4 * 8},
		{"bc1 1x1", FormatBC1RGBAUnorm, 1, 1, 1, 8},
		{"astc8x8 9x9", FormatASTC8x8Unorm, 9, 9, 1, 4 * 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := LookupFormat(tt.format)
			if err != nil {
				t.Fatal(err)
			}
			if got := info.ImageSize(tt.width, tt.height, tt.depth); got != tt.want {
				t.Errorf("ImageSize(%d, %d, %d) = %d, want %d", tt.width, tt.height, tt.depth, got, tt.want)
			}
		})
	}
}
