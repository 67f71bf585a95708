// Package sync provides synchronous, type-safe read and write facades
// over the scheduler. Individual Get and Set calls block while being
// batched together behind the scenes, so many concurrent callers share
// one backend round trip.
//
// Use BatchReader when the backend supports multi-key fetches and
// BatchWriter when it supports multi-key writes.
package sync
