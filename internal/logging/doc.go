// Package logging builds the slog loggers used across lutforge.
//
// It provides typed attribute helpers, a pretty console handler for
// interactive use, a JSON handler for machine consumption, component
// loggers with a standardized attribute, and a ProgressSampler that keeps
// repetitive progress events out of the logs.
package logging
