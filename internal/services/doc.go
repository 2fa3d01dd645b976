// Package services defines shared utilities consumed by the pipeline and
// external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (invalid LUT, decode failure, export failure,
//     configuration) consistent across components.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// stays uniform.
package services
