package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/rangescan"
	"github.com/hupe1980/rangescan/codec"
	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/internal/simd"
	"github.com/hupe1980/rangescan/prommetrics"
	"github.com/hupe1980/rangescan/row"
	"github.com/hupe1980/rangescan/testutil"
	"github.com/spf13/cobra"
)

const defaultRows = 10_000_000

type benchFlags struct {
	rows        int
	seed        int64
	filterFile  string
	codec       string
	backend     string
	workers     int
	chunkSize   int
	lanes       int
	memoryLimit int64
	packed      bool
	verify      bool
	metrics     bool
	logLevel    string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rangescan",
		Short:         "Range-filter scan harness",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBenchCmd(), newFieldsCmd())
	return root
}

func newBenchCmd() *cobra.Command {
	var fl benchFlags

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Generate rows and time every backend on one filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.OutOrStdout(), fl)
		},
	}

	f := cmd.Flags()
	f.IntVar(&fl.rows, "rows", defaultRows, "number of rows to generate")
	f.Int64Var(&fl.seed, "seed", 0, "generator seed (0 picks one from the clock)")
	f.StringVar(&fl.filterFile, "filter", "", "filter document, e.g. {\"age\": [25, 35]} (default: random harness filter)")
	f.StringVar(&fl.codec, "codec", codec.Default.Name(), "filter document codec: "+strings.Join(codec.Names(), "|"))
	f.StringVar(&fl.backend, "backend", "all", "backend to run: all|scalar|task-parallel|data-parallel")
	f.IntVar(&fl.workers, "workers", 0, "task-parallel worker count (0 = GOMAXPROCS)")
	f.IntVar(&fl.chunkSize, "chunk-size", 0, "rows per task-parallel task (0 = automatic)")
	f.IntVar(&fl.lanes, "lanes", 0, "data-parallel device lanes (0 = GOMAXPROCS)")
	f.Int64Var(&fl.memoryLimit, "memory-limit", 0, "scan buffer memory limit in bytes (0 = unlimited)")
	f.BoolVar(&fl.packed, "packed", false, "round-trip the rows through the packed encoding")
	f.BoolVar(&fl.verify, "verify", false, "check that all backends agree")
	f.BoolVar(&fl.metrics, "metrics", false, "print Prometheus metrics after the run")
	f.StringVar(&fl.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	return cmd
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the row schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-16s %5s %5s %10s\n", "FIELD", "BITS", "SHIFT", "MAX")
			for _, f := range row.Fields() {
				fmt.Fprintf(w, "%-16s %5d %5d %10d\n", f, f.Bits(), f.Shift(), f.Max())
			}
			fmt.Fprintf(w, "packed width: %d bits, natural width: %d bytes\n", row.PackedBits, row.Size)
			return nil
		},
	}
}

func runBench(w io.Writer, fl benchFlags) error {
	if fl.rows < 0 {
		return fmt.Errorf("invalid --rows %d", fl.rows)
	}

	backends, err := selectBackends(fl.backend)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(fl.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	seed := fl.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := testutil.NewRNG(seed)

	start := time.Now()
	rows := rng.Rows(fl.rows)
	fmt.Fprintf(w, "generated %d rows (seed %d) in %s\n", len(rows), seed, time.Since(start))

	f, err := loadFilter(fl, rng)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "filter: %s\n", f)

	if fl.packed {
		if err := packedRoundTrip(w, rows); err != nil {
			return err
		}
	}

	collector := prommetrics.New()
	eng, err := rangescan.New(
		rangescan.WithWorkers(fl.workers),
		rangescan.WithChunkSize(fl.chunkSize),
		rangescan.WithLanes(fl.lanes, 0),
		rangescan.WithMemoryLimit(fl.memoryLimit),
		rangescan.WithLogLevel(level),
		rangescan.WithMetricsCollector(collector),
	)
	if err != nil {
		return err
	}
	defer eng.Close()

	fmt.Fprintf(w, "simd: %s\n", simd.ActiveISA())

	for _, b := range backends {
		start := time.Now()
		res, err := eng.Scan(b, rows, f)
		if err != nil {
			return fmt.Errorf("%s: %w", b, err)
		}
		fmt.Fprintf(w, "%-14s found %d rows in %s\n", b.String()+":", res.Count, time.Since(start))
	}

	if fl.verify {
		r, err := eng.Verify(rows, f)
		var mismatch *rangescan.ErrBackendMismatch
		switch {
		case errors.As(err, &mismatch):
			fmt.Fprintln(w, "verify: FAILED,", mismatch)
			return err
		case err != nil:
			return err
		default:
			fmt.Fprintf(w, "verify: ok, all backends found %d rows\n", r.Count)
		}
	}

	if fl.metrics {
		return collector.WriteText(w)
	}
	return nil
}

func selectBackends(name string) ([]rangescan.Backend, error) {
	if name == "" || name == "all" {
		return rangescan.Backends(), nil
	}
	b, err := rangescan.ParseBackend(name)
	if err != nil {
		return nil, err
	}
	return []rangescan.Backend{b}, nil
}

func loadFilter(fl benchFlags, rng *testutil.RNG) (*filter.Range, error) {
	if fl.filterFile == "" {
		return rng.HarnessFilter(), nil
	}

	c, ok := codec.ByName(fl.codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (want one of %s)", fl.codec, strings.Join(codec.Names(), ", "))
	}

	data, err := os.ReadFile(fl.filterFile)
	if err != nil {
		return nil, err
	}
	return codec.DecodeFilter(c, data)
}

func packedRoundTrip(w io.Writer, rows []row.Row) error {
	start := time.Now()
	packed := row.EncodeAll(nil, rows)
	decoded := row.DecodeAll(nil, packed)
	took := time.Since(start)

	if !slices.Equal(rows, decoded) {
		return errors.New("packed round-trip changed rows")
	}

	fmt.Fprintf(w, "packed: %d rows, %d -> %d bytes, round-trip in %s\n",
		len(rows), len(rows)*row.Size, len(packed)*8, took)
	return nil
}
