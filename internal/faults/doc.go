// Package faults defines the error taxonomy shared by the classification
// engine, the archive state, and the CLI.
//
// Key responsibilities:
//   - Marker errors that separate environment, per-file, persistence, and
//     domain failures so callers can pick a reaction with errors.Is.
//   - The Wrap helper that prefixes a failure with component and operation
//     context while keeping both the marker and the cause inspectable.
//   - Context helpers that stamp frame identifiers and request identifiers
//     for structured logging.
package faults
