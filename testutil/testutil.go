package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/row"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Row generates one row the way the reference benchmark does: products of
// two draws below 1000 for money and code, age below 100, height below 300.
func (r *RNG) Row() row.Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rowLocked()
}

func (r *RNG) rowLocked() row.Row {
	var v row.Row
	v[row.Age] = uint32(r.rand.Intn(100))
	v[row.AmountOfMoney] = uint32(r.rand.Intn(1000) * r.rand.Intn(1000))
	v[row.Code] = uint32(r.rand.Intn(1000) * r.rand.Intn(1000))
	v[row.Gender] = uint32(r.rand.Intn(2))
	v[row.Height] = uint32(r.rand.Intn(300))
	return v
}

// Rows generates n rows with Row. Uses a single allocation.
func (r *RNG) Rows(n int) []row.Row {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]row.Row, n)
	for i := range rows {
		rows[i] = r.rowLocked()
	}
	return rows
}

// UniformRows generates n rows with every field uniform over its full
// documented range, maximum included.
func (r *RNG) UniformRows(n int) []row.Row {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]row.Row, n)
	for i := range rows {
		for f := range row.NumFields {
			rows[i][f] = uint32(r.rand.Int63n(int64(f.Max()) + 1))
		}
	}
	return rows
}

// SkewedRows generates n rows whose age and code follow a Zipf law with skew
// s > 1, so a handful of values dominate. Other fields are as in Rows.
func (r *RNG) SkewedRows(n int, s float64) []row.Row {
	r.mu.Lock()
	defer r.mu.Unlock()

	ages := rand.NewZipf(r.rand, s, 1, uint64(row.Age.Max()))
	codes := rand.NewZipf(r.rand, s, 1, uint64(row.Code.Max()))

	rows := make([]row.Row, n)
	for i := range rows {
		rows[i] = r.rowLocked()
		rows[i][row.Age] = uint32(ages.Uint64())
		rows[i][row.Code] = uint32(codes.Uint64())
	}
	return rows
}

// HarnessFilter builds the filter of the reference benchmark: an age window
// of six years starting below 100 and a code window of six values starting
// below 30000. All other fields are inactive.
func (r *RNG) HarnessFilter() *filter.Range {
	r.mu.Lock()
	defer r.mu.Unlock()

	age := uint32(r.rand.Intn(100))
	code := uint32(r.rand.Intn(30000))

	return filter.New().
		Set(row.Age, age, age+5).
		Set(row.Code, code, code+5)
}

// Filter builds a random filter: each field is active with probability 1/2
// and gets bounds drawn from its documented range. Bounds are ordered, so the
// filter is never empty by construction.
func (r *RNG) Filter() *filter.Range {
	r.mu.Lock()
	defer r.mu.Unlock()

	f := filter.New()
	for fld := range row.NumFields {
		if r.rand.Intn(2) == 0 {
			continue
		}
		a := uint32(r.rand.Int63n(int64(fld.Max()) + 1))
		b := uint32(r.rand.Int63n(int64(fld.Max()) + 1))
		f.Set(fld, min(a, b), max(a, b))
	}
	return f
}
