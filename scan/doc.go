// Package scan implements the three range-filter scan backends.
//
// # Backends
//
//   - Sequential: single goroutine, index order. The reference oracle.
//   - Parallel: disjoint spans on an ants worker pool, one private
//     accumulator per span, reduced in span order after a single join.
//   - DataParallel: one task per row on a Device, each writing its own mask
//     slot, followed by a host-side reduction of the mask.
//
// All backends evaluate the same predicate (filter.Params.Match) and return
// identical counts for identical inputs. Every backend also supports
// compaction, and all of them return rows in input order.
//
// # Concurrency
//
// No backend shares mutable state between workers while a scan runs, so none
// of them takes a lock. Scans cannot be cancelled; they either complete or
// fail before producing a result.
//
// # Resources
//
// With a resource controller configured (WithResourceController,
// WithMemoryLimit), scans reserve their result and mask buffers before
// allocating them and fail with ErrResourceExhausted when the reservation is
// refused.
package scan
