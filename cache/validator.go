package cache

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/gogpu/texture"
)

// ValidationKey identifies one validation: a texture shape and a range.
type ValidationKey struct {
	Shape texture.Shape
	Range texture.Range
}

// ValidationHasher hashes the fields that differ between typical keys:
// the shape geometry and the range's offset, extent and windows.
func ValidationHasher(k ValidationKey) uint64 {
	s, r := k.Shape, k.Range
	var buf [8 * 16]byte
	b := buf[:0]
	for _, v := range [...]int{
		int(s.Format()), s.Width(), s.Height(), s.Depth(), s.Layers(), s.MipLevels(),
		r.X(), r.Y(), r.Z(), r.Width(), r.Height(), r.Depth(),
		r.Layer(), r.NumLayers(), r.MipLevel(), r.NumMipLevels(),
	} {
		b = binary.LittleEndian.AppendUint64(b, uint64(v))
	}
	h := fnv.New64a()
	_, _ = h.Write(b) // never fails
	return h.Sum64()
}

// Validator memoizes texture.Shape.ValidateRange. Rejections are cached
// too: the same bad range keeps failing with the same error.
type Validator struct {
	c *ShardedCache[ValidationKey, error]
}

// NewValidator creates a validator keeping up to capacity verdicts per
// shard. If capacity <= 0, DefaultCapacity is used.
func NewValidator(capacity int) *Validator {
	return &Validator{c: NewSharded[ValidationKey, error](capacity, ValidationHasher)}
}

// Validate returns s.ValidateRange(r), computing it at most once per
// cached (s, r) pair.
func (v *Validator) Validate(s texture.Shape, r texture.Range) error {
	return v.c.GetOrCreate(ValidationKey{Shape: s, Range: r}, func() error {
		return s.ValidateRange(r)
	})
}

// Forget drops every verdict cached for s, typically when the texture
// holding it is destroyed.
func (v *Validator) Forget(s texture.Shape) int {
	return v.c.DeleteFunc(func(k ValidationKey) bool { return k.Shape == s })
}

// Stats returns the cache counters.
func (v *Validator) Stats() Stats {
	return v.c.Stats()
}
