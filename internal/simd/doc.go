// Package simd provides reduction kernels for data-parallel scan masks.
//
// # Supported Platforms
//
//   - x86-64 with POPCNT
//   - ARM64 (CNT)
//
// Runtime CPU feature detection (golang.org/x/sys/cpu) selects the kernel
// set. Other platforms use the portable byte loop. Set RANGESCAN_SIMD=generic to force the portable byte loop.
//
// # Operations
//
//   - CountOnes: number of set slots in a 0/1 mask
//   - MaskIndices: ascending indices of set slots (compaction)
package simd
