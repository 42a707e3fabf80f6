package texture

import (
	"math"
	"testing"
)

func TestValidateRange(t *testing.T) {
	array := mustResolve(t, New2DArray(FormatRGBA8Unorm, 8, 8, 2, sampled), DefaultCapabilities())
	mipped := mustResolve(t, withMips(New2D(FormatRGBA8Unorm, 8, 8, sampled), 4), DefaultCapabilities())
	odd := mustResolve(t, withMips(New2D(FormatRGBA8Unorm, 3, 3, sampled), 2), DefaultCapabilities())
	volume := mustResolve(t, New3D(FormatRGBA8Unorm, 4, 4, 4, sampled), DefaultCapabilities())

	tests := []struct {
		name  string
		shape Shape
		r     Range
		ok    bool
	}{
		{"whole array", array, NewRange2DArray(0, 0, 8, 8, 0, 2), true},
		{"quarter of layer 1", array, NewRange2DArray(4, 4, 4, 4, 1, 1), true},
		{"mip 1 of single-level texture", array, NewRange(0, 0, 0, 4, 4, 2, 1, 1), false},
		{"larger than texture", array, NewRange2DArray(0, 0, 12, 12, 0, 3), false},
		{"all zero", array, NewRange(0, 0, 0, 0, 0, 0, 0, 0), false},
		{"x overflow", array, NewRange2DArray(5, 0, 4, 4, 0, 1), false},
		{"y overflow", array, NewRange2DArray(0, 5, 4, 4, 0, 1), false},
		{"layer overflow", array, NewRange2DArray(0, 0, 8, 8, 1, 2), false},
		{"derived out of window", array, NewRange2DArray(0, 0, 8, 8, 0, 1).AtLayer(1), false},

		{"level 1 fits", mipped, NewRange(0, 0, 0, 4, 4, 1, 1, 1), true},
		{"base size at level 1", mipped, NewRange(0, 0, 0, 8, 8, 1, 1, 1), false},
		{"offset at level 2", mipped, NewRange(2, 2, 0, 2, 2, 1, 2, 1), false},
		{"whole chain", mipped, NewRange(0, 0, 0, 8, 8, 1, 0, 4), true},
		{"past last level", mipped, NewRange(0, 0, 0, 1, 1, 1, 3, 2), false},
		{"last level", mipped, NewRange(0, 0, 0, 1, 1, 1, 3, 1), true},

		{"edge texel of odd base", odd, NewRange(2, 2, 0, 1, 1, 1, 0, 1), true},
		{"edge texel spanning levels", odd, NewRange(2, 2, 0, 1, 1, 1, 0, 2), false},

		{"volume slab", volume, NewRange3D(0, 0, 2, 4, 4, 2), true},
		{"volume overflow", volume, NewRange3D(0, 0, 3, 4, 4, 2), false},
		{"z on a 2d texture", mipped, NewRange3D(0, 0, 1, 4, 4, 1), false},
		{"unresolved texture", Shape{}, NewRange2D(0, 0, 1, 1), false},

		{"huge x", array, NewRange(math.MaxInt, 0, 0, 1, 1, 1, 0, 1), false},
		{"huge y", array, NewRange(0, math.MaxInt, 0, 1, 1, 1, 0, 1), false},
		{"huge width", array, NewRange(1, 0, 0, math.MaxInt, 1, 1, 0, 1), false},
		{"huge height", array, NewRange(0, 1, 0, 1, math.MaxInt, 1, 0, 1), false},
		{"huge layer", array, NewRange(0, 0, math.MaxInt, 1, 1, 1, 0, 1), false},
		{"huge layer count", array, NewRange(0, 0, 1, 1, 1, math.MaxInt, 0, 1), false},
		{"huge mip level", array, NewRange(0, 0, 0, 1, 1, 1, math.MaxInt, 1), false},
		{"huge mip count", mipped, NewRange(0, 0, 0, 1, 1, 1, 1, math.MaxInt), false},
		{"huge z", volume, NewRange3D(0, 0, math.MaxInt, 1, 1, 1), false},
		{"huge depth", volume, NewRange3D(0, 0, 1, 1, 1, math.MaxInt), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.ValidateRange(tt.r)
			if tt.ok {
				if err != nil {
					t.Errorf("ValidateRange(%s) error = %v", tt.r, err)
				}
				return
			}
			if CodeOf(err) != CodeInvalidRange {
				t.Errorf("ValidateRange(%s) error = %v, want InvalidRange", tt.r, err)
			}
		})
	}
}

func TestValidateUpload(t *testing.T) {
	s := mustResolve(t, New2DArray(FormatRGBA8Unorm, 8, 8, 2, sampled), DefaultCapabilities())
	full := s.FullRange(0, 0)

	if err := s.ValidateUpload(full, 8*8*4*2); err != nil {
		t.Errorf("ValidateUpload(exact) error = %v", err)
	}
	for _, n := range []int{0, 8*8*4*2 - 1, 8*8*4*2 + 1} {
		if err := s.ValidateUpload(full, n); CodeOf(err) != CodeInvalidRange {
			t.Errorf("ValidateUpload(%d bytes) error = %v, want InvalidRange", n, err)
		}
	}
	if err := s.ValidateUpload(NewRange2D(0, 0, 0, 0), 0); CodeOf(err) != CodeInvalidRange {
		t.Errorf("ValidateUpload(invalid range) error = %v", err)
	}
}
