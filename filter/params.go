package filter

import "github.com/hupe1980/rangescan/row"

// Params is a Range flattened into plain value arrays.
//
// Scan backends copy Params into their kernels before starting any parallel
// work, so the kernels never read the caller's Range while they run.
type Params struct {
	// Active is 1 for constrained fields and 0 otherwise.
	Active [row.NumFields]uint32
	Min    [row.NumFields]uint32
	Max    [row.NumFields]uint32
}

// Match evaluates the predicate for v.
//
// Every field is tested and the outcomes are folded with bitwise operators;
// there is no early exit. All backends call this function, so they agree
// bit for bit on every (row, filter) pair.
func (p *Params) Match(v *row.Row) bool {
	var miss uint32
	for f := range row.NumFields {
		in := b2u(v[f] >= p.Min[f]) & b2u(v[f] <= p.Max[f])
		miss |= p.Active[f] &^ in
	}
	return miss == 0
}

// MatchMask writes 1 into dst[i] when rows[i] matches and 0 otherwise.
// dst must be at least len(rows) long. Each slot is written exactly once,
// so disjoint sub-slices may be processed concurrently.
func (p *Params) MatchMask(rows []row.Row, dst []byte) {
	n := len(rows)
	_ = dst[:n]
	i := 0

	for ; i+8 <= n; i += 8 {
		dst[i] = p.matchByte(&rows[i])
		dst[i+1] = p.matchByte(&rows[i+1])
		dst[i+2] = p.matchByte(&rows[i+2])
		dst[i+3] = p.matchByte(&rows[i+3])
		dst[i+4] = p.matchByte(&rows[i+4])
		dst[i+5] = p.matchByte(&rows[i+5])
		dst[i+6] = p.matchByte(&rows[i+6])
		dst[i+7] = p.matchByte(&rows[i+7])
	}

	for ; i < n; i++ {
		dst[i] = p.matchByte(&rows[i])
	}
}

func (p *Params) matchByte(v *row.Row) byte {
	if p.Match(v) {
		return 1
	}
	return 0
}

// b2u converts a bool to 0 or 1.
// The compiler lowers this to a SETcc/CSET without a branch.
func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
