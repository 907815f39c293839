package rangescan

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/internal/resource"
	"github.com/hupe1980/rangescan/row"
	"github.com/hupe1980/rangescan/scan"
)

// Engine owns one scanner per backend and the resources they share.
//
// An Engine is safe for concurrent use. Rows and filters passed to it are
// only read.
type Engine struct {
	opts options
	rc   *resource.Controller

	// loggers carries the backend field of each backend's scan logs.
	loggers [numBackends]*Logger

	seq *scan.Sequential
	par *scan.Parallel
	dp  *scan.DataParallel

	closed atomic.Bool
}

// Report is the outcome of Verify.
type Report struct {
	// Rows is the size of the verified row set.
	Rows int
	// Count is the scalar backend's match count.
	Count int
	// Counts holds the match count of every backend.
	Counts map[Backend]int
	// Durations holds the wall time of every backend.
	Durations map[Backend]time.Duration
}

// New creates an Engine. Call Close to release its worker pool.
func New(optFns ...Option) (*Engine, error) {
	opts := applyOptions(optFns)

	rc := resource.NewController(resource.Config{MemoryLimitBytes: opts.memoryLimit})
	scanOpts := []scan.Option{
		scan.WithLogger(opts.logger.Logger),
		scan.WithResourceController(rc),
	}

	par, err := scan.NewParallel(scan.ParallelConfig{
		Workers:   opts.workers,
		ChunkSize: opts.chunkSize,
	}, scanOpts...)
	if err != nil {
		return nil, err
	}

	dev := opts.device
	if dev == nil {
		dev = scan.NewCPUDevice(opts.lanes, opts.tileSize)
	}

	e := &Engine{
		opts: opts,
		rc:   rc,
		seq:  scan.NewSequential(scanOpts...),
		par:  par,
		dp:   scan.NewDataParallel(dev, scanOpts...),
	}
	for _, b := range Backends() {
		e.loggers[b] = opts.logger.WithBackend(b)
	}

	opts.logger.Info("engine ready",
		"workers", par.Workers(),
		"device", dev.Name(),
		"lanes", dev.Lanes(),
		"memory_limit", opts.memoryLimit,
	)

	return e, nil
}

// Scanner returns the scanner behind b.
func (e *Engine) Scanner(b Backend) (scan.Scanner, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	switch b {
	case Scalar:
		return e.seq, nil
	case TaskParallel:
		return e.par, nil
	case DataParallel:
		return e.dp, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, b)
	}
}

// Count returns the number of rows matching f using backend b.
// A nil filter matches every row.
func (e *Engine) Count(b Backend, rows []row.Row, f *filter.Range) (int, error) {
	s, err := e.Scanner(b)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	n, err := s.Count(rows, f)
	e.observe(b, len(rows), n, time.Since(start), err)

	return n, translateError(err)
}

// Scan returns the rows matching f, in input order, using backend b.
func (e *Engine) Scan(b Backend, rows []row.Row, f *filter.Range) (scan.Result, error) {
	s, err := e.Scanner(b)
	if err != nil {
		return scan.Result{}, err
	}

	start := time.Now()
	res, err := s.Scan(rows, f)
	e.observe(b, len(rows), res.Count, time.Since(start), err)

	return res, translateError(err)
}

// Mask evaluates f on the data-parallel backend and returns the per-row
// match mask.
func (e *Engine) Mask(rows []row.Row, f *filter.Range) (scan.MaskResult, error) {
	if e.closed.Load() {
		return scan.MaskResult{}, ErrClosed
	}

	start := time.Now()
	m, err := e.dp.Mask(rows, f)
	e.observe(DataParallel, len(rows), m.Count, time.Since(start), err)

	return m, translateError(err)
}

// Verify counts f on every backend and checks that they agree.
// On disagreement the report is still returned together with an
// *ErrBackendMismatch.
func (e *Engine) Verify(rows []row.Row, f *filter.Range) (Report, error) {
	r := Report{
		Rows:      len(rows),
		Counts:    make(map[Backend]int, numBackends),
		Durations: make(map[Backend]time.Duration, numBackends),
	}

	for _, b := range Backends() {
		start := time.Now()
		n, err := e.Count(b, rows, f)
		if err != nil {
			return r, fmt.Errorf("verify %s: %w", b, err)
		}
		r.Counts[b] = n
		r.Durations[b] = time.Since(start)
	}
	r.Count = r.Counts[Scalar]

	var err error
	for _, n := range r.Counts {
		if n != r.Count {
			err = &ErrBackendMismatch{Counts: r.Counts}
			break
		}
	}

	e.opts.logger.WithRows(r.Rows).LogVerify(context.Background(), r, err)
	e.opts.metricsCollector.RecordVerify(err == nil)

	return r, err
}

// MemoryUsage returns the bytes currently reserved by in-flight scans.
func (e *Engine) MemoryUsage() int64 { return e.rc.MemoryUsage() }

// PeakMemoryUsage returns the highest reservation seen so far.
func (e *Engine) PeakMemoryUsage() int64 { return e.rc.PeakMemoryUsage() }

// Close stops the worker pool. Further calls return ErrClosed.
// Close is idempotent.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.opts.logger.Debug("engine closed")
	return translateError(e.par.Close())
}

func (e *Engine) observe(b Backend, rows, matched int, took time.Duration, err error) {
	if err != nil {
		matched = 0
	}
	e.loggers[b].LogScan(context.Background(), rows, matched, took, err)
	e.opts.metricsCollector.RecordScan(b.String(), rows, matched, took, err)
}
