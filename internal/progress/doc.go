// Package progress tracks per-batch classification progress and pushes
// snapshots to observers.
package progress
