// Package filter implements the per-field inclusive range predicate.
//
// Range is the user-facing description; Params is the same filter flattened
// into value arrays that scan kernels capture before they start. Both share a
// single predicate implementation (Params.Match) so every scan backend
// produces identical results.
//
//	f := filter.New().
//	    Set(row.Age, 25, 35).
//	    Set(row.Code, 0, 5)
//	ok := f.Matches(&r)
package filter
