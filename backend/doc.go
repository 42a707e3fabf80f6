// Package backend provides the pluggable texture storage abstraction.
//
// A Backend owns texture memory. Callers resolve a texture.Shape against
// the backend's Capabilities, create the texture, and then move packed
// bytes in and out through texture.Range values. Every range is checked
// against the shape before memory is touched.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The software backend is registered on import of this package; the
// native backend is registered by backend/native once a HAL device is
// available:
//
//	native.Register(openDev.Device, openDev.Queue, caps)
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name. Open does either and calls Init:
//
//	b, err := backend.Open("")          // native if registered, else software
//	b, err := backend.Open("software")  // explicit
//
// # Available Backends
//
//   - "software": CPU slices per layer and mip level, supports readback
//   - "native": gogpu/wgpu HAL device and queue, write-only
package backend
