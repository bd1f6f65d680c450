// Package config loads, normalizes, and validates astrofiler configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the ASTROFILER_ROOT environment
// override. The Config type gathers the archive root, catalog and equipment
// database locations, the per-frame-kind naming patterns, and logging
// settings so the CLI and the classification engine discover them in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths and clear validation errors.
package config
