// Package pool provides reusable row arenas for scan workers.
// Uses sync.Pool for automatic memory reuse.
package pool

import (
	"sync"

	"github.com/hupe1980/rangescan/row"
)

// MaxRowCapacity caps the arenas kept for reuse. Larger arenas are dropped
// on Put so one huge scan does not pin its memory.
const MaxRowCapacity = 1 << 16

var rowPool = sync.Pool{
	New: func() any {
		return new([]row.Row)
	},
}

// GetRows retrieves a row arena of length n. Its contents are unspecified;
// callers write a slot before reading it.
func GetRows(n int) *[]row.Row {
	buf := rowPool.Get().(*[]row.Row)
	if cap(*buf) < n {
		*buf = make([]row.Row, n)
	}
	*buf = (*buf)[:n]
	return buf
}

// PutRows returns a row arena to the pool for reuse. The caller must not
// touch the arena afterwards.
func PutRows(buf *[]row.Row) {
	if buf == nil || cap(*buf) > MaxRowCapacity {
		return
	}
	*buf = (*buf)[:0]
	rowPool.Put(buf)
}
