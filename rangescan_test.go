package rangescan_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/hupe1980/rangescan"
	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/row"
	"github.com/hupe1980/rangescan/scan"
	"github.com/hupe1980/rangescan/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...rangescan.Option) *rangescan.Engine {
	t.Helper()
	eng, err := rangescan.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestEngine_BackendsAgree(t *testing.T) {
	rng := testutil.NewRNG(7)
	rows := rng.Rows(50_000)

	eng := newEngine(t,
		rangescan.WithWorkers(4),
		rangescan.WithChunkSize(1000),
		rangescan.WithLanes(3, 777),
	)

	for i := 0; i < 20; i++ {
		f := rng.Filter()

		want := 0
		for j := range rows {
			if f.Matches(&rows[j]) {
				want++
			}
		}

		for _, b := range rangescan.Backends() {
			n, err := eng.Count(b, rows, f)
			require.NoError(t, err)
			assert.Equal(t, want, n, "backend %s filter %s", b, f)

			res, err := eng.Scan(b, rows, f)
			require.NoError(t, err)
			assert.Equal(t, want, res.Count)
			assert.Len(t, res.Rows, want)
		}
	}
}

func TestEngine_HarnessScenario(t *testing.T) {
	rows := []row.Row{
		row.New(500, 1, 30, 2, 170),
		row.New(10, 0, 40, 2, 160),
		row.New(7, 1, 26, 5, 180),
		row.New(7, 1, 26, 6, 180),
	}
	f := filter.New().Set(row.Age, 25, 35).Set(row.Code, 0, 5)

	eng := newEngine(t)

	for _, b := range rangescan.Backends() {
		res, err := eng.Scan(b, rows, f)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Count, b.String())
		assert.Equal(t, []row.Row{rows[0], rows[2]}, res.Rows, b.String())
	}
}

func TestEngine_Mask(t *testing.T) {
	rows := testutil.NewRNG(3).Rows(4096)
	f := filter.New().Set(row.Gender, 1, 1)

	eng := newEngine(t)

	m, err := eng.Mask(rows, f)
	require.NoError(t, err)
	require.Len(t, m.Mask, len(rows))

	for i := range rows {
		assert.Equal(t, f.Matches(&rows[i]), m.Matches(i), "row %d", i)
	}
	assert.Equal(t, uint64(m.Count), m.Bitmap().GetCardinality())
}

func TestEngine_Verify(t *testing.T) {
	rng := testutil.NewRNG(11)
	rows := rng.Rows(20_000)
	f := rng.HarnessFilter()

	metrics := &rangescan.BasicMetricsCollector{}
	eng := newEngine(t, rangescan.WithMetricsCollector(metrics))

	r, err := eng.Verify(rows, f)
	require.NoError(t, err)
	assert.Equal(t, len(rows), r.Rows)
	assert.Len(t, r.Counts, 3)
	assert.Len(t, r.Durations, 3)
	for _, b := range rangescan.Backends() {
		assert.Equal(t, r.Count, r.Counts[b])
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.ScanCount)
	assert.Equal(t, int64(1), stats.VerifyCount)
	assert.Zero(t, stats.VerifyFailures)
}

// blindDevice completes every dispatch without running a single task.
type blindDevice struct{}

func (blindDevice) Name() string                    { return "blind" }
func (blindDevice) Lanes() int                      { return 1 }
func (blindDevice) Dispatch(int, scan.Kernel) error { return nil }

func TestEngine_VerifyMismatch(t *testing.T) {
	rows := testutil.NewRNG(5).Rows(1000)

	metrics := &rangescan.BasicMetricsCollector{}
	eng := newEngine(t,
		rangescan.WithDevice(blindDevice{}),
		rangescan.WithMetricsCollector(metrics),
	)

	r, err := eng.Verify(rows, nil)

	var mismatch *rangescan.ErrBackendMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, len(rows), mismatch.Counts[rangescan.Scalar])
	assert.Equal(t, 0, mismatch.Counts[rangescan.DataParallel])
	assert.Contains(t, err.Error(), "data-parallel=0")
	assert.Equal(t, len(rows), r.Count)
	assert.Equal(t, int64(1), metrics.GetStats().VerifyFailures)
}

func TestEngine_ResourceExhausted(t *testing.T) {
	rows := testutil.NewRNG(1).Rows(1000)

	metrics := &rangescan.BasicMetricsCollector{}
	eng := newEngine(t,
		rangescan.WithMemoryLimit(int64(row.Size)*10),
		rangescan.WithMetricsCollector(metrics),
	)

	for _, b := range rangescan.Backends() {
		res, err := eng.Scan(b, rows, nil)
		require.ErrorIs(t, err, rangescan.ErrResourceExhausted, b.String())
		assert.Zero(t, res.Count)
		assert.Nil(t, res.Rows)
	}
	assert.Equal(t, int64(3), metrics.GetStats().ScanErrors)
	assert.Zero(t, eng.MemoryUsage())

	// Small inputs still fit.
	res, err := eng.Scan(rangescan.Scalar, rows[:5], nil)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Count)
	assert.Zero(t, eng.MemoryUsage())
	assert.Positive(t, eng.PeakMemoryUsage())
}

func TestEngine_UnknownBackend(t *testing.T) {
	eng := newEngine(t)

	_, err := eng.Count(rangescan.Backend(42), nil, nil)
	assert.ErrorIs(t, err, rangescan.ErrUnknownBackend)

	_, err = eng.Scanner(rangescan.Backend(42))
	assert.ErrorIs(t, err, rangescan.ErrUnknownBackend)
}

func TestEngine_Close(t *testing.T) {
	eng, err := rangescan.New()
	require.NoError(t, err)

	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close())

	for _, b := range rangescan.Backends() {
		_, err := eng.Count(b, nil, nil)
		assert.ErrorIs(t, err, rangescan.ErrClosed, b.String())
	}
	_, err = eng.Mask(nil, nil)
	assert.ErrorIs(t, err, rangescan.ErrClosed)
	_, err = eng.Verify(nil, nil)
	assert.ErrorIs(t, err, rangescan.ErrClosed)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	rng := testutil.NewRNG(9)
	rows := rng.Rows(30_000)
	f := rng.HarnessFilter()

	eng := newEngine(t, rangescan.WithWorkers(2))

	want, err := eng.Count(rangescan.Scalar, rows, f)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 24)
	for i := 0; i < 24; i++ {
		b := rangescan.Backends()[i%3]
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := eng.Count(b, rows, f)
			if err == nil && n != want {
				err = errors.New(b.String() + " disagrees")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEngine_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := rangescan.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng := newEngine(t, rangescan.WithLogger(logger))

	_, err := eng.Count(rangescan.Scalar, testutil.NewRNG(1).Rows(10), nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "engine ready")
	assert.Contains(t, out, "scan completed")
	assert.Contains(t, out, "backend=scalar")
	assert.Contains(t, out, "matched=10")
}

func TestEngine_LoggingFields(t *testing.T) {
	var buf bytes.Buffer
	logger := rangescan.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng := newEngine(t, rangescan.WithLogger(logger))
	rows := testutil.NewRNG(2).Rows(25)

	_, err := eng.Verify(rows, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	seen := map[string]bool{}
	for _, line := range lines {
		switch {
		case strings.Contains(line, "scan completed"):
			assert.Equal(t, 1, strings.Count(line, "backend="), line)
			assert.Contains(t, line, "rows=25")
			for _, b := range rangescan.Backends() {
				if strings.Contains(line, "backend="+b.String()+" ") {
					seen[b.String()] = true
				}
			}
		case strings.Contains(line, "backends agree"):
			assert.Equal(t, 1, strings.Count(line, "rows="), line)
			assert.Contains(t, line, "rows=25")
			assert.Contains(t, line, "matched=25")
			seen["verify"] = true
		}
	}
	assert.Len(t, seen, 4, buf.String())
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    rangescan.Backend
		wantErr bool
	}{
		{in: "scalar", want: rangescan.Scalar},
		{in: "sequential", want: rangescan.Scalar},
		{in: "Task-Parallel", want: rangescan.TaskParallel},
		{in: "parallel", want: rangescan.TaskParallel},
		{in: " data-parallel ", want: rangescan.DataParallel},
		{in: "simd", want: rangescan.DataParallel},
		{in: "gpu", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := rangescan.ParseBackend(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, rangescan.ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(rangescan.ParseBackend(got.String())))
		})
	}

	assert.Equal(t, "Backend(9)", rangescan.Backend(9).String())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
