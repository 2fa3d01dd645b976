// Package transform evaluates color cubes against pixel buffers.
//
// The engine applies a fixed stage order to every pixel: primary LUT with
// opacity blending, white-balance shift, secondary LUT with opacity
// blending. Cubes are read-only inputs; the engine holds no mutable state
// beyond precomputed white-balance multipliers, so a single engine value is
// safe to reuse across the frames of one job and output is bit-for-bit
// reproducible for fixed inputs.
package transform
