// Package rangescan filters fixed-schema rows by per-field inclusive ranges.
//
// A row has five unsigned fields (amount of money, gender, age, code,
// height). A filter.Range activates any subset of them with an inclusive
// [begin, end] interval; a row matches when every active field is inside its
// interval. Inactive fields are ignored, and an empty interval (begin > end)
// matches nothing.
//
// # Backends
//
// The Engine runs the same predicate on three interchangeable backends that
// always agree on the count and return matches in input order:
//
//   - Scalar: one sequential pass; the reference.
//   - TaskParallel: contiguous spans on a fixed worker pool, each span
//     accumulating into its own slot, reduced in span order after one join.
//   - DataParallel: one task per row writing a byte into a flat mask on a
//     scan.Device, reduced and compacted on the host.
//
// # Quick Start
//
//	eng, _ := rangescan.New()
//	defer eng.Close()
//
//	f := filter.New().
//		Set(row.Age, 25, 35).
//		Set(row.Code, 0, 5)
//
//	n, _ := eng.Count(rangescan.TaskParallel, rows, f)
//	res, _ := eng.Scan(rangescan.DataParallel, rows, f)
//
// # Packed rows
//
// The row package also provides a 57-bit packed encoding (row.PackedRow)
// with fixed field widths. Encoding truncates each field to its width.
//
// # Resource limits
//
// WithMemoryLimit bounds the result and mask buffers all in-flight scans
// may hold. A scan that cannot reserve its buffers fails with
// ErrResourceExhausted and returns nothing.
package rangescan
