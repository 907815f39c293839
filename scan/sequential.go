package scan

import (
	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/row"
)

// Sequential is the single-threaded reference scanner. Its results are the
// ground truth the other backends are checked against.
type Sequential struct {
	cfg config
}

var _ Scanner = (*Sequential)(nil)

// NewSequential creates a sequential scanner.
func NewSequential(optFns ...Option) *Sequential {
	return &Sequential{cfg: applyOptions(optFns)}
}

// Count returns the number of rows matching f.
func (s *Sequential) Count(rows []row.Row, f *filter.Range) (int, error) {
	p := paramsOf(f)

	count := 0
	for i := range rows {
		if p.Match(&rows[i]) {
			count++
		}
	}
	return count, nil
}

// Scan visits rows in index order and appends every match to the result.
//
// Like a preallocated result array, the worst case of len(rows) matches is
// reserved up front; the rows actually returned are allocated on demand.
func (s *Sequential) Scan(rows []row.Row, f *filter.Range) (Result, error) {
	res, err := s.cfg.reserve(rowBytes(len(rows)), "sequential result")
	if err != nil {
		return Result{}, err
	}
	defer res.Release()

	p := paramsOf(f)

	out := make([]row.Row, 0)
	for i := range rows {
		if p.Match(&rows[i]) {
			out = append(out, rows[i])
		}
	}

	return Result{Count: len(out), Rows: out}, nil
}
