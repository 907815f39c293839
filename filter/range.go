package filter

import (
	"fmt"
	"strings"

	"github.com/hupe1980/rangescan/row"
)

// Range is a per-field inclusive range filter.
//
// A row matches iff, for every field whose Active flag is set, the row's value
// lies in [Begin[f], End[f]]. Inactive fields impose no constraint. An active
// field with Begin > End is an empty range and matches nothing.
//
// The zero value matches every row.
type Range struct {
	Active [row.NumFields]bool
	Begin  row.Row
	End    row.Row
}

// New returns an empty filter that matches every row.
func New() *Range {
	return &Range{}
}

// All is an alias of New, reading better at call sites that want no constraint.
func All() *Range {
	return New()
}

// Set activates field f with the inclusive bounds [begin, end].
func (r *Range) Set(f row.Field, begin, end uint32) *Range {
	r.Active[f] = true
	r.Begin[f] = begin
	r.End[f] = end
	return r
}

// Clear deactivates field f. Its bounds are reset to zero.
func (r *Range) Clear(f row.Field) *Range {
	r.Active[f] = false
	r.Begin[f] = 0
	r.End[f] = 0
	return r
}

// IsActive reports whether field f is constrained.
func (r *Range) IsActive(f row.Field) bool {
	return r.Active[f]
}

// ActiveFields returns the constrained fields in schema order.
func (r *Range) ActiveFields() []row.Field {
	var out []row.Field
	for f := range row.NumFields {
		if r.Active[f] {
			out = append(out, f)
		}
	}
	return out
}

// Empty reports whether some active field has Begin > End, in which case no
// row can match.
func (r *Range) Empty() bool {
	for f := range row.NumFields {
		if r.Active[f] && r.Begin[f] > r.End[f] {
			return true
		}
	}
	return false
}

// Matches reports whether v satisfies every active field range.
// All fields are tested on every call; see Params.Match.
func (r *Range) Matches(v *row.Row) bool {
	p := r.Params()
	return p.Match(v)
}

// Params captures the filter as plain values for use inside a scan kernel.
func (r *Range) Params() Params {
	var p Params
	for f := range row.NumFields {
		if r.Active[f] {
			p.Active[f] = 1
		}
		p.Min[f] = r.Begin[f]
		p.Max[f] = r.End[f]
	}
	return p
}

// String formats the active ranges, e.g. "age:[25,35] code:[0,5]".
// A filter without active fields prints as "*".
func (r *Range) String() string {
	var parts []string
	for f := range row.NumFields {
		if r.Active[f] {
			parts = append(parts, fmt.Sprintf("%s:[%d,%d]", f, r.Begin[f], r.End[f]))
		}
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}
