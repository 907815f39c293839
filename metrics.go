package rangescan

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordScan is called after each count or compacting scan.
	// backend is the Backend name, rows the row-set size, matched the number
	// of matching rows (0 on error), duration the time taken.
	RecordScan(backend string, rows, matched int, duration time.Duration, err error)

	// RecordVerify is called after each cross-backend verification.
	RecordVerify(agreed bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordScan(string, int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordVerify(bool)                                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ScanCount      atomic.Int64
	ScanErrors     atomic.Int64
	ScanTotalNanos atomic.Int64
	RowsScanned    atomic.Int64
	RowsMatched    atomic.Int64
	VerifyCount    atomic.Int64
	VerifyFailures atomic.Int64
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(_ string, rows, matched int, duration time.Duration, err error) {
	b.ScanCount.Add(1)
	b.ScanTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ScanErrors.Add(1)
		return
	}
	b.RowsScanned.Add(int64(rows))
	b.RowsMatched.Add(int64(matched))
}

// RecordVerify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVerify(agreed bool) {
	b.VerifyCount.Add(1)
	if !agreed {
		b.VerifyFailures.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		ScanCount:      b.ScanCount.Load(),
		ScanErrors:     b.ScanErrors.Load(),
		RowsScanned:    b.RowsScanned.Load(),
		RowsMatched:    b.RowsMatched.Load(),
		VerifyCount:    b.VerifyCount.Load(),
		VerifyFailures: b.VerifyFailures.Load(),
	}
	if s.ScanCount > 0 {
		s.ScanAvgNanos = b.ScanTotalNanos.Load() / s.ScanCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	ScanCount      int64
	ScanErrors     int64
	ScanAvgNanos   int64
	RowsScanned    int64
	RowsMatched    int64
	VerifyCount    int64
	VerifyFailures int64
}
