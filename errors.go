package texture

import (
	"github.com/cockroachdb/errors"
)

// Error taxonomy. Every error returned by this package wraps exactly one
// of these sentinels; use errors.Is or CodeOf to classify it.
var (
	// ErrInvalidRange is returned when a range has a zero extent, lies
	// outside the targeted mip level, or addresses layers or mip levels the
	// texture does not have. The caller must not perform the upload.
	ErrInvalidRange = errors.New("texture: invalid range")

	// ErrUnsupportedFormat is returned for a format missing from the format
	// table. It indicates a caller bug and must be propagated as is.
	ErrUnsupportedFormat = errors.New("texture: unsupported format")

	// ErrCapabilityMismatch is returned when a descriptor needs a feature the
	// backend capabilities do not provide (arrays, NPOT mip chains, ...).
	ErrCapabilityMismatch = errors.New("texture: capability mismatch")

	// ErrInvalidDescriptor is returned when a descriptor is malformed on its
	// own: zero sizes, zero layers or mip levels, bad cube geometry.
	ErrInvalidDescriptor = errors.New("texture: invalid descriptor")
)

// Code classifies an error returned by this package.
type Code uint8

const (
	// CodeOK means no error.
	CodeOK Code = iota
	// CodeInvalidRange corresponds to ErrInvalidRange.
	CodeInvalidRange
	// CodeUnsupportedFormat corresponds to ErrUnsupportedFormat.
	CodeUnsupportedFormat
	// CodeCapabilityMismatch corresponds to ErrCapabilityMismatch.
	CodeCapabilityMismatch
	// CodeInvalidDescriptor corresponds to ErrInvalidDescriptor.
	CodeInvalidDescriptor
	// CodeUnknown is any error that does not wrap one of the sentinels.
	CodeUnknown
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeInvalidRange:
		return "InvalidRange"
	case CodeUnsupportedFormat:
		return "UnsupportedFormat"
	case CodeCapabilityMismatch:
		return "CapabilityMismatch"
	case CodeInvalidDescriptor:
		return "InvalidDescriptor"
	default:
		return "Unknown"
	}
}

// CodeOf returns the code of err. A nil error yields CodeOK.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidRange):
		return CodeInvalidRange
	case errors.Is(err, ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case errors.Is(err, ErrCapabilityMismatch):
		return CodeCapabilityMismatch
	case errors.Is(err, ErrInvalidDescriptor):
		return CodeInvalidDescriptor
	default:
		return CodeUnknown
	}
}
