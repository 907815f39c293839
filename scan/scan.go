package scan

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/internal/resource"
	"github.com/hupe1980/rangescan/row"
)

var (
	// ErrResourceExhausted is returned when a scan cannot reserve memory for
	// its result or working buffers. The scan is aborted; nothing is returned.
	ErrResourceExhausted = errors.New("scan: resource exhausted")

	// ErrClosed is returned by scanners used after Close.
	ErrClosed = errors.New("scan: scanner closed")

	// ErrWorkerFault is returned when a worker panics during a scan.
	ErrWorkerFault = errors.New("scan: worker fault")
)

// Result is the outcome of a compacting scan.
type Result struct {
	// Count is the number of matching rows.
	Count int
	// Rows holds the matching rows in input order. Never nil.
	Rows []row.Row
}

// Scanner is implemented by every scan backend.
//
// The rows and the filter are read-only for the duration of a call and may
// be shared by concurrent scans. A nil filter matches every row.
type Scanner interface {
	// Count returns the number of rows matching f.
	Count(rows []row.Row, f *filter.Range) (int, error)
	// Scan returns the matching rows in input order together with their count.
	Scan(rows []row.Row, f *filter.Range) (Result, error)
}

// Option configures a scanner.
type Option func(*config)

type config struct {
	logger *slog.Logger
	rc     *resource.Controller
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithResourceController makes the scanner reserve its buffers through rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(c *config) {
		c.rc = rc
	}
}

// WithMemoryLimit is a shorthand for a private controller limited to bytes.
func WithMemoryLimit(bytes int64) Option {
	return func(c *config) {
		c.rc = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

func applyOptions(optFns []Option) config {
	var c config
	for _, fn := range optFns {
		if fn != nil {
			fn(&c)
		}
	}
	return c
}

// reserve reserves bytes through the configured controller and translates a
// refusal into ErrResourceExhausted.
func (c *config) reserve(bytes int64, what string) (*resource.Reservation, error) {
	res, err := c.rc.Reserve(bytes)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("scan buffer reservation refused",
				"buffer", what,
				"bytes", bytes,
				"in_use", c.rc.MemoryUsage(),
				"limit", c.rc.MemoryLimit(),
			)
		}
		return nil, fmt.Errorf("%w: %s needs %d bytes: %w", ErrResourceExhausted, what, bytes, err)
	}
	return res, nil
}

// paramsOf captures f by value. A nil filter matches everything.
func paramsOf(f *filter.Range) filter.Params {
	if f == nil {
		return filter.Params{}
	}
	return f.Params()
}

// rowBytes is the size of n natural-width rows.
func rowBytes(n int) int64 {
	return int64(n) * int64(row.Size)
}
