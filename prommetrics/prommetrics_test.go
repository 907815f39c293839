package prommetrics_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/rangescan"
	"github.com/hupe1980/rangescan/prommetrics"
	"github.com/hupe1980/rangescan/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ rangescan.MetricsCollector = (*prommetrics.Collector)(nil)

func TestCollector_RecordScan(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prommetrics.NewWithRegistry(reg)

	c.RecordScan("scalar", 100, 7, time.Millisecond, nil)
	c.RecordScan("scalar", 50, 3, time.Millisecond, nil)
	c.RecordScan("data-parallel", 100, 0, time.Millisecond, errors.New("boom"))

	n, err := promtest.GatherAndCount(reg, "rangescan_scans_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	matched := findFamily(mfs, "rangescan_rows_matched_total")
	require.NotNil(t, matched)
	require.Len(t, matched.GetMetric(), 1)
	assert.Equal(t, 10.0, matched.GetMetric()[0].GetCounter().GetValue())

	duration := findFamily(mfs, "rangescan_scan_duration_seconds")
	require.NotNil(t, duration)
	assert.Len(t, duration.GetMetric(), 2)
}

func findFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestCollector_RecordVerify(t *testing.T) {
	c := prommetrics.New()

	c.RecordVerify(true)
	c.RecordVerify(true)
	c.RecordVerify(false)

	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, `rangescan_verifications_total{result="agree"} 2`)
	assert.Contains(t, out, `rangescan_verifications_total{result="mismatch"} 1`)
}

func TestCollector_Engine(t *testing.T) {
	c := prommetrics.New()

	eng, err := rangescan.New(rangescan.WithMetricsCollector(c))
	require.NoError(t, err)
	defer eng.Close()

	rng := testutil.NewRNG(1)
	rows := rng.Rows(1000)

	_, err = eng.Verify(rows, rng.HarnessFilter())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))
	out := buf.String()

	for _, b := range rangescan.Backends() {
		assert.Contains(t, out, `rangescan_rows_scanned_total{backend="`+b.String()+`"} 1000`)
		assert.Contains(t, out, `rangescan_scans_total{backend="`+b.String()+`",status="ok"} 1`)
	}
	assert.Contains(t, out, "rangescan_scan_duration_seconds_bucket")
}
