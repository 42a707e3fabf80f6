package texture

// Subresource is one layer of one mip level of a range, located inside a
// packed upload buffer.
//
// Packed buffers are level-major: all layers of the first level, then all
// layers of the next. Inside a layer, depth slices follow each other and
// rows of blocks are tightly packed.
type Subresource struct {
	Range Range

	// Offset and Size locate the subresource in the buffer.
	Offset int
	Size   int

	// BytesPerRow and RowsPerImage describe the layout of the slice.
	BytesPerRow  int
	RowsPerImage int
}

// Subresources splits r into single-layer, single-level pieces in buffer
// order. The sizes add up to RangeSizeInBytes(r).
func (s Shape) Subresources(r Range) ([]Subresource, error) {
	if err := s.ValidateRange(r); err != nil {
		return nil, err
	}
	out := make([]Subresource, 0, r.numMips*r.numLayers)
	offset := 0
	for i := range r.numMips {
		lr := r.AtMipLevel(r.mipLevel + i)
		size := s.info.ImageSize(lr.width, lr.height, lr.depth)
		for j := range r.numLayers {
			out = append(out, Subresource{
				Range:        lr.AtLayer(r.layer + j),
				Offset:       offset,
				Size:         size,
				BytesPerRow:  s.info.BytesPerRow(lr.width),
				RowsPerImage: s.info.BlocksHigh(lr.height),
			})
			offset += size
		}
	}
	return out, nil
}
