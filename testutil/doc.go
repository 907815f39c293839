// Package testutil provides testing utilities for rangescan.
//
// This package is intended for use in tests, benchmarks and the benchmark
// harness. It generates deterministic row sets and filters from a seed.
//
// # Row Generation
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.Rows(1_000_000)      // reference benchmark distribution
//	rows = rng.UniformRows(1000)     // full documented ranges
//	rows = rng.SkewedRows(1000, 1.5) // Zipfian age and code
//
// # Filters
//
//	f := rng.HarnessFilter() // age and code windows of width 6
//	f = rng.Filter()         // random subset of fields, random bounds
package testutil
