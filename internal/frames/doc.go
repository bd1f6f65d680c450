// Package frames models astrophotography capture frames and the catalog that
// owns them.
//
// A frame is one capture unit (light, dark, bias, or flat) together with two
// path lists: raw files waiting to be classified and archive files already
// classified. The lists are disjoint, and a path only ever leaves the first
// list by entering the second. Frame is the capability every kind offers;
// SessionFrame is the optional capability of classifying into an existing
// imaging-session folder.
//
// Catalog holds one map per kind and serializes to a single JSON document.
package frames
