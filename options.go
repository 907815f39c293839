package rangescan

import (
	"log/slog"

	"github.com/hupe1980/rangescan/scan"
)

type options struct {
	workers          int
	chunkSize        int
	lanes            int
	tileSize         int
	device           scan.Device
	memoryLimit      int64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithWorkers sets the worker pool size of the task-parallel backend.
// If workers <= 0, GOMAXPROCS is used.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithChunkSize sets the number of rows per task-parallel task.
// If 0, it is derived from the row-set size and worker count.
func WithChunkSize(rows int) Option {
	return func(o *options) {
		o.chunkSize = rows
	}
}

// WithLanes configures the default software device of the data-parallel
// backend: lanes concurrent tiles of tileSize rows. Zero values pick
// GOMAXPROCS and scan.DefaultTileSize. Ignored when WithDevice is set.
func WithLanes(lanes, tileSize int) Option {
	return func(o *options) {
		o.lanes = lanes
		o.tileSize = tileSize
	}
}

// WithDevice sets the execution target of the data-parallel backend.
//
// Example:
//
//	eng, _ := rangescan.New(rangescan.WithDevice(scan.SerialDevice{}))
func WithDevice(dev scan.Device) Option {
	return func(o *options) {
		o.device = dev
	}
}

// WithMemoryLimit caps the memory all scans of the engine may reserve for
// result and mask buffers at the same time. Scans that would exceed it fail
// with ErrResourceExhausted. 0 disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring scans.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &rangescan.BasicMetricsCollector{}
//	eng, _ := rangescan.New(rangescan.WithMetricsCollector(metrics))
//	// ... scan ...
//	stats := metrics.GetStats()
//	fmt.Printf("Scans: %d, Avg latency: %dns\n", stats.ScanCount, stats.ScanAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for scans.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := rangescan.NewJSONLogger(slog.LevelInfo)
//	eng, _ := rangescan.New(rangescan.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
