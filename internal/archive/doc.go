// Package archive owns the process-wide catalog handle and exposes the
// commands that mutate it.
//
// State guards the catalog with a mutex held only for lookups and commits,
// never across file copies. A file lock next to the catalog keeps a second
// process from writing it concurrently, and a per-frame mutex serializes
// batches that target the same frame. Every commit persists the catalog; a
// failed write restores the previous entry and deletes the copied file so
// the archive directory and the catalog agree after each call.
package archive
