// Package prommetrics exports engine metrics to Prometheus.
package prommetrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const namespace = "rangescan"

// Collector implements rangescan.MetricsCollector on a Prometheus registry.
type Collector struct {
	reg *prometheus.Registry

	scans         *prometheus.CounterVec
	rowsScanned   *prometheus.CounterVec
	rowsMatched   *prometheus.CounterVec
	scanDuration  *prometheus.HistogramVec
	verifications *prometheus.CounterVec
}

// New creates a Collector backed by its own registry.
func New() *Collector {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates a Collector that registers its metrics on reg.
func NewWithRegistry(reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		reg: reg,
		scans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Total number of scans",
			},
			[]string{"backend", "status"},
		),
		rowsScanned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_scanned_total",
				Help:      "Total number of rows evaluated by successful scans",
			},
			[]string{"backend"},
		),
		rowsMatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_matched_total",
				Help:      "Total number of rows matched by successful scans",
			},
			[]string{"backend"},
		),
		scanDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scan_duration_seconds",
				Help:      "Scan latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"backend"},
		),
		verifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Total number of cross-backend verifications",
			},
			[]string{"result"},
		),
	}
}

// RecordScan implements rangescan.MetricsCollector.
func (c *Collector) RecordScan(backend string, rows, matched int, duration time.Duration, err error) {
	c.scanDuration.WithLabelValues(backend).Observe(duration.Seconds())
	if err != nil {
		c.scans.WithLabelValues(backend, "error").Inc()
		return
	}
	c.scans.WithLabelValues(backend, "ok").Inc()
	c.rowsScanned.WithLabelValues(backend).Add(float64(rows))
	c.rowsMatched.WithLabelValues(backend).Add(float64(matched))
}

// RecordVerify implements rangescan.MetricsCollector.
func (c *Collector) RecordVerify(agreed bool) {
	result := "agree"
	if !agreed {
		result = "mismatch"
	}
	c.verifications.WithLabelValues(result).Inc()
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// WriteText writes every gathered metric family in the text exposition format.
func (c *Collector) WriteText(w io.Writer) error {
	mfs, err := c.reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
