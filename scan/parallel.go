package scan

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/internal/pool"
	"github.com/hupe1980/rangescan/row"
	"github.com/panjf2000/ants/v2"
)

const (
	// minChunkSize bounds the automatic chunk size from below so tiny inputs
	// are not split into more tasks than they are worth.
	minChunkSize = 4096

	// chunksPerWorker oversubscribes the pool to smooth out uneven spans.
	chunksPerWorker = 4

	// spanOverheadBytes is what one span costs besides its rows: its bounds
	// and its job slot.
	spanOverheadBytes = int64(unsafe.Sizeof(span{}) + unsafe.Sizeof(spanJob{}))
)

// ParallelConfig configures the task-parallel scanner.
type ParallelConfig struct {
	// Workers is the size of the worker pool. If 0, GOMAXPROCS is used.
	Workers int

	// ChunkSize is the number of rows per task. If 0, it is derived from
	// the input size and the worker count.
	ChunkSize int
}

// Parallel partitions the row set into disjoint spans and scans them on a
// fixed-size goroutine pool.
//
// Every span owns one job slot (its count and error) and, when compacting,
// the window of a scratch arena that lines up with its rows. Workers never
// write outside their slot or window; after the single join barrier the
// slots are reduced in span order on the calling goroutine. Counts therefore
// match the sequential scanner exactly and compacted rows keep their input
// order.
type Parallel struct {
	cfg       config
	pool      *ants.PoolWithFunc
	workers   int
	chunkSize int
	closed    atomic.Bool
}

var _ Scanner = (*Parallel)(nil)

// NewParallel creates a task-parallel scanner and starts its pool.
// Call Close to release the pool.
func NewParallel(pc ParallelConfig, optFns ...Option) (*Parallel, error) {
	workers := pc.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if pc.ChunkSize < 0 {
		return nil, fmt.Errorf("scan: invalid chunk size %d", pc.ChunkSize)
	}

	cfg := applyOptions(optFns)

	workerPool, err := ants.NewPoolWithFunc(workers, func(arg any) {
		arg.(*spanJob).run()
	}, ants.WithPanicHandler(func(v any) {
		// Jobs recover their own panics; reaching this handler means the
		// recovery itself failed.
		if cfg.logger != nil {
			cfg.logger.Error("scan worker panic escaped task", "panic", v)
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("scan: create worker pool: %w", err)
	}

	if cfg.logger != nil {
		cfg.logger.Debug("task-parallel scanner started", "workers", workers, "chunk_size", pc.ChunkSize)
	}

	return &Parallel{
		cfg:       cfg,
		pool:      workerPool,
		workers:   workers,
		chunkSize: pc.ChunkSize,
	}, nil
}

// Workers returns the pool size.
func (p *Parallel) Workers() int { return p.workers }

// Count returns the number of rows matching f.
func (p *Parallel) Count(rows []row.Row, f *filter.Range) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}

	spans := p.spans(len(rows))
	res, err := p.cfg.reserve(spanBytes(len(spans)), "task-parallel spans")
	if err != nil {
		return 0, err
	}
	defer res.Release()

	jobs, err := p.runSpans(&spanScan{rows: rows, params: paramsOf(f)}, spans)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range jobs {
		count += jobs[i].count
	}
	return count, nil
}

// Scan returns the matching rows in input order.
//
// Spans compact into their own window of a scratch arena as long as the
// input, so the working set is bounded by the input size whatever the chunk
// size. The arena, the worst-case result and the span bookkeeping are
// reserved up front.
func (p *Parallel) Scan(rows []row.Row, f *filter.Range) (Result, error) {
	if p.closed.Load() {
		return Result{}, ErrClosed
	}

	n := len(rows)
	spans := p.spans(n)
	res, err := p.cfg.reserve(2*rowBytes(n)+spanBytes(len(spans)), "task-parallel result")
	if err != nil {
		return Result{}, err
	}
	defer res.Release()

	scratch := pool.GetRows(n)
	defer pool.PutRows(scratch)

	jobs, err := p.runSpans(&spanScan{rows: rows, params: paramsOf(f), scratch: *scratch}, spans)
	if err != nil {
		return Result{}, err
	}

	total := 0
	for i := range jobs {
		total += jobs[i].count
	}

	out := make([]row.Row, 0, total)
	for i := range jobs {
		j := &jobs[i]
		out = append(out, (*scratch)[j.lo:j.lo+j.count]...)
	}
	return Result{Count: total, Rows: out}, nil
}

// Close releases the worker pool. Scans started afterwards fail with ErrClosed.
func (p *Parallel) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.pool.Release()
	return nil
}

type span struct {
	lo, hi int
}

// spanScan is the state shared read-only by every job of one scan, plus the
// join barrier.
type spanScan struct {
	rows   []row.Row
	params filter.Params
	// scratch is nil for count-only scans. Job i writes only
	// scratch[lo_i:hi_i].
	scratch []row.Row
	wg      sync.WaitGroup
}

// spanJob is the private slot of one span.
type spanJob struct {
	scan   *spanScan
	lo, hi int
	count  int
	err    error
}

// spanBytes is the bookkeeping cost of n spans.
func spanBytes(n int) int64 {
	return int64(n) * spanOverheadBytes
}

// spans splits [0, n) into contiguous, disjoint, ordered spans.
func (p *Parallel) spans(n int) []span {
	if n == 0 {
		return nil
	}

	size := p.chunkSize
	if size == 0 {
		tasks := p.workers * chunksPerWorker
		size = max((n+tasks-1)/tasks, minChunkSize)
	}

	out := make([]span, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		out = append(out, span{lo: lo, hi: min(lo+size, n)})
	}
	return out
}

// runSpans hands one job per span to the pool and blocks until every job is
// done.
func (p *Parallel) runSpans(sc *spanScan, spans []span) ([]spanJob, error) {
	jobs := make([]spanJob, len(spans))

	var submitErr error
	for i, s := range spans {
		jobs[i] = spanJob{scan: sc, lo: s.lo, hi: s.hi}

		sc.wg.Add(1)
		if err := p.pool.Invoke(&jobs[i]); err != nil {
			sc.wg.Done()
			submitErr = err
			break
		}
	}

	sc.wg.Wait()

	if submitErr != nil {
		if errors.Is(submitErr, ants.ErrPoolClosed) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("scan: submit task: %w", submitErr)
	}

	for i := range jobs {
		if jobs[i].err != nil {
			if p.cfg.logger != nil {
				p.cfg.logger.Error("task-parallel scan failed", "span", i, "error", jobs[i].err)
			}
			return nil, jobs[i].err
		}
	}
	return jobs, nil
}

// run is the body of one job. A panic is recorded in the job's own slot.
func (j *spanJob) run() {
	defer j.scan.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			j.count = 0
			j.err = fmt.Errorf("%w: rows [%d,%d): %v", ErrWorkerFault, j.lo, j.hi, r)
		}
	}()

	rows := j.scan.rows[j.lo:j.hi]
	params := &j.scan.params

	if j.scan.scratch == nil {
		for i := range rows {
			if params.Match(&rows[i]) {
				j.count++
			}
		}
		return
	}

	out := j.scan.scratch[j.lo:j.hi]
	n := 0
	for i := range rows {
		if params.Match(&rows[i]) {
			out[n] = rows[i]
			n++
		}
	}
	j.count = n
}
