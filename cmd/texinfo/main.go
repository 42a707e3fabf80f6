// Command texinfo prints the mip chain, memory footprint and subresource
// layout of a texture, and checks a range against it.
//
// Usage:
//
//	texinfo -format rgba8unorm -width 128 -height 333 -layers 2 -mips 2 \
//		-caps gles2 -range 0,0,64,64,1,1,0,2
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/texture"
)

func main() {
	var (
		format  = flag.String("format", "rgba8unorm", "texture format name")
		dim     = flag.String("dim", "", "dimension: 2d, 2darray, 3d or cube (default: 2d, or 2darray when -layers > 1)")
		width   = flag.Int("width", 256, "base level width")
		height  = flag.Int("height", 256, "base level height")
		depth   = flag.Int("depth", 1, "base level depth (3d only)")
		layers  = flag.Int("layers", 1, "array layers or cube faces")
		mips    = flag.Int("mips", 1, "requested mip levels")
		caps    = flag.String("caps", "default", "capability profile: default, gles3 or gles2")
		rng     = flag.String("range", "", "range to check: x,y,w,h,layer,layers,mip,mips")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		texture.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	profile, err := parseCaps(*caps)
	if err != nil {
		log.Fatal(err)
	}
	f, err := texture.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	d, err := parseDimension(*dim, *layers)
	if err != nil {
		log.Fatal(err)
	}

	desc := texture.Descriptor{
		Format:    f,
		Dimension: d,
		Width:     *width,
		Height:    *height,
		Depth:     *depth,
		Layers:    *layers,
		MipLevels: *mips,
		Usage:     gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	}
	shape, err := texture.Resolve(desc, profile)
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	printShape(os.Stdout, shape)

	if *rng == "" {
		return
	}
	r, err := parseRange(*rng)
	if err != nil {
		log.Fatal(err)
	}
	if err := printRange(os.Stdout, shape, r); err != nil {
		fmt.Printf("range %s: REJECTED (%s): %v\n", r, texture.CodeOf(err), err)
		os.Exit(1)
	}
}

func parseCaps(name string) (texture.Capabilities, error) {
	switch strings.ToLower(name) {
	case "default", "":
		return texture.DefaultCapabilities(), nil
	case "gles3":
		return texture.GLES3Capabilities(), nil
	case "gles2":
		return texture.GLES2Capabilities(), nil
	default:
		return texture.Capabilities{}, errors.Newf("unknown capability profile %q", name)
	}
}

func parseDimension(name string, layers int) (texture.Dimension, error) {
	switch strings.ToLower(name) {
	case "":
		if layers > 1 {
			return texture.Dimension2DArray, nil
		}
		return texture.Dimension2D, nil
	case "2d":
		return texture.Dimension2D, nil
	case "2darray":
		return texture.Dimension2DArray, nil
	case "3d":
		return texture.Dimension3D, nil
	case "cube":
		return texture.DimensionCube, nil
	default:
		return 0, errors.Newf("unknown dimension %q", name)
	}
}

// parseRange parses "x,y,w,h,layer,layers,mip,mips". The last four fields
// may be omitted and default to layer 0, one layer, level 0, one level.
func parseRange(s string) (texture.Range, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 && len(fields) != 8 {
		return texture.Range{}, errors.Newf("range %q: want 4 or 8 comma separated integers", s)
	}
	v := []int{0, 0, 0, 0, 0, 1, 0, 1}
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return texture.Range{}, errors.Wrapf(err, "range %q field %d", s, i+1)
		}
		v[i] = n
	}
	return texture.NewRange(v[0], v[1], v[4], v[2], v[3], v[5], v[6], v[7]), nil
}

func printShape(w io.Writer, s texture.Shape) {
	fmt.Fprintf(w, "%s\n", s)
	if s.MipLevels() != s.RequestedMipLevels() {
		fmt.Fprintf(w, "requested %d mip levels, backend allocates %d\n", s.RequestedMipLevels(), s.MipLevels())
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "level\tsize\tbytes/layer\tbytes")
	for _, m := range s.MipChain() {
		total, _ := s.LevelSizeInBytes(m.Level)
		fmt.Fprintf(tw, "%d\t%dx%dx%d\t%d\t%d\n", m.Level, m.Width, m.Height, m.Depth, total/s.Layers(), total)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "estimated size: %d bytes\n", s.EstimatedSizeInBytes())
}

func printRange(w io.Writer, s texture.Shape, r texture.Range) error {
	subs, err := s.Subresources(r)
	if err != nil {
		return err
	}
	size, err := s.RangeSizeInBytes(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "range %s: OK, %d bytes\n", r, size)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "level\tlayer\tregion\toffset\tsize\tbytes/row")
	for _, sub := range subs {
		sr := sub.Range
		fmt.Fprintf(tw, "%d\t%d\t%d,%d,%d %dx%dx%d\t%d\t%d\t%d\n",
			sr.MipLevel(), sr.Layer(), sr.X(), sr.Y(), sr.Z(), sr.Width(), sr.Height(), sr.Depth(),
			sub.Offset, sub.Size, sub.BytesPerRow)
	}
	return tw.Flush()
}
