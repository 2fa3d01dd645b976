// Package config loads, normalizes, and validates lutforge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks. The
// Config type centralizes every knob the CLI and pipeline need: LUT and
// output directories, external tool binaries, default encode quality, and
// logging behaviour.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
