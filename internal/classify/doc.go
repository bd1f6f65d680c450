// Package classify copies one batch of raw files into an archive directory.
//
// The engine tolerates per-file failures (a source without a file name, a
// failed copy) and reports them together once the batch finishes. Failures of
// the environment or of the commit step stop the batch immediately. The
// commit step belongs to the caller, which records the copy in its catalog
// and undoes the copy when it cannot persist the record.
package classify
