// Package cube parses .cube lookup-table files and builds the in-memory
// color lattice consumed by the transform engine.
//
// A parsed Cube stores RGBA float samples in R-fastest order
// (index = r + g*N + b*N*N). One-dimensional LUTs (per-channel tone
// curves) are lifted to a fixed 32-point 3D lattice on load, so every
// downstream consumer handles a single representation. The alpha channel
// is padding required by the four-channel evaluation layout and is always
// 1.0.
//
// Parsing is strict about sample counts: a file whose triplet count does
// not match its declared size fails outright rather than producing a
// partial cube.
package cube
