package scan

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/internal/mem"
	"github.com/hupe1980/rangescan/internal/simd"
	"github.com/hupe1980/rangescan/row"
)

// MaskResult is the output of a data-parallel scan before compaction.
type MaskResult struct {
	// Mask holds 1 at every matching row index and 0 elsewhere.
	Mask []byte
	// Count is the number of ones in Mask.
	Count int
}

// Matches reports whether row i matched.
func (m MaskResult) Matches(i int) bool {
	return m.Mask[i] != 0
}

// Indices returns the matching row indices in ascending order.
func (m MaskResult) Indices() []uint32 {
	return simd.MaskIndices(m.Mask, make([]uint32, 0, m.Count))
}

// Bitmap returns the matching row indices as a Roaring bitmap.
func (m MaskResult) Bitmap() *roaring.Bitmap {
	rb := roaring.New()
	rb.AddMany(m.Indices())
	rb.RunOptimize()
	return rb
}

// BitSet returns the mask as a dense bitset, one bit per row.
func (m MaskResult) BitSet() *bitset.BitSet {
	bs := bitset.New(uint(len(m.Mask)))
	for i, b := range m.Mask {
		if b != 0 {
			bs.Set(uint(i))
		}
	}
	return bs
}

// DataParallel maps the filter onto one independent task per row.
//
// Each task evaluates the predicate for its row and writes 0 or 1 into its
// own slot of a flat mask; no task touches shared state. After the device
// reports completion, the mask is reduced to a count on the host.
type DataParallel struct {
	cfg config
	dev Device
}

var _ Scanner = (*DataParallel)(nil)

// NewDataParallel creates a data-parallel scanner on dev.
// A nil device selects NewCPUDevice(0, 0).
func NewDataParallel(dev Device, optFns ...Option) *DataParallel {
	if dev == nil {
		dev = NewCPUDevice(0, 0)
	}

	cfg := applyOptions(optFns)
	if cfg.logger != nil {
		cfg.logger.Debug("data-parallel scanner ready",
			"device", dev.Name(),
			"lanes", dev.Lanes(),
			"isa", simd.ActiveISA().String(),
		)
	}

	return &DataParallel{cfg: cfg, dev: dev}
}

// Device returns the execution target.
func (d *DataParallel) Device() Device { return d.dev }

// Mask evaluates f for every row and returns the per-row mask and its count.
func (d *DataParallel) Mask(rows []row.Row, f *filter.Range) (MaskResult, error) {
	res, err := d.cfg.reserve(maskBytes(len(rows)), "data-parallel mask")
	if err != nil {
		return MaskResult{}, err
	}
	defer res.Release()

	return d.mask(rows, f)
}

func maskBytes(n int) int64 { return int64(mem.AlignedSize(n)) }

// mask runs the per-row kernel; the caller holds the reservation.
func (d *DataParallel) mask(rows []row.Row, f *filter.Range) (MaskResult, error) {
	n := len(rows)

	mask := mem.AllocAligned(n)
	if mask == nil {
		mask = []byte{}
	}

	// The kernel closes over a private copy of the filter, never over f.
	params := paramsOf(f)
	kernel := func(lo, hi int) {
		params.MatchMask(rows[lo:hi], mask[lo:hi])
	}

	if err := d.dev.Dispatch(n, kernel); err != nil {
		if d.cfg.logger != nil {
			d.cfg.logger.Error("data-parallel dispatch failed", "device", d.dev.Name(), "rows", n, "error", err)
		}
		return MaskResult{}, fmt.Errorf("scan: dispatch on %s: %w", d.dev.Name(), err)
	}

	return MaskResult{Mask: mask, Count: simd.CountOnes(mask)}, nil
}

// Count returns the number of rows matching f.
func (d *DataParallel) Count(rows []row.Row, f *filter.Range) (int, error) {
	m, err := d.Mask(rows, f)
	if err != nil {
		return 0, err
	}
	return m.Count, nil
}

// Scan compacts the matching rows in input order using the mask. The mask
// and the worst-case result are reserved together.
func (d *DataParallel) Scan(rows []row.Row, f *filter.Range) (Result, error) {
	n := len(rows)
	res, err := d.cfg.reserve(rowBytes(n)+maskBytes(n), "data-parallel result")
	if err != nil {
		return Result{}, err
	}
	defer res.Release()

	m, err := d.mask(rows, f)
	if err != nil {
		return Result{}, err
	}

	// Compact straight from the mask; no index list is materialized.
	out := make([]row.Row, 0, m.Count)
	for i, b := range m.Mask {
		if b != 0 {
			out = append(out, rows[i])
		}
	}
	return Result{Count: m.Count, Rows: out}, nil
}
