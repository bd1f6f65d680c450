// Package equipment records the cameras, telescopes, filters, flatteners,
// mounts, and observing locations that frames reference by id.
//
// Store persists records in SQLite. Directory is the read-only, in-memory
// snapshot handed to path resolution: it never fails and answers unknown ids
// with None so a frame with incomplete metadata still classifies.
package equipment
