package simd

import (
	"encoding/binary"
	"math/bits"
)

// Mask kernels operate on byte masks where every element is 0 or 1, as
// written by the data-parallel scan. Other byte values are not supported.
//
// The generic kernels are the default; selectKernels swaps in the word-wide
// variants when the platform init detects a native popcount.
var (
	kernelCountOnes   = countOnesGeneric
	kernelMaskIndices = maskIndicesGeneric
)

// CountOnes returns the number of set slots in mask.
func CountOnes(mask []byte) int {
	return kernelCountOnes(mask)
}

// MaskIndices appends the index of every set slot in mask to dst, in
// ascending order, and returns the extended slice.
func MaskIndices(mask []byte, dst []uint32) []uint32 {
	return kernelMaskIndices(mask, dst)
}

func countOnesGeneric(mask []byte) int {
	count := 0
	for _, b := range mask {
		count += int(b)
	}
	return count
}

// countOnesWords reads eight slots at a time. With 0/1 bytes the popcount of
// a word equals the number of set slots in it, whatever the byte order.
func countOnesWords(mask []byte) int {
	count := 0
	i := 0
	for ; i+32 <= len(mask); i += 32 {
		count += bits.OnesCount64(binary.LittleEndian.Uint64(mask[i:]))
		count += bits.OnesCount64(binary.LittleEndian.Uint64(mask[i+8:]))
		count += bits.OnesCount64(binary.LittleEndian.Uint64(mask[i+16:]))
		count += bits.OnesCount64(binary.LittleEndian.Uint64(mask[i+24:]))
	}
	for ; i+8 <= len(mask); i += 8 {
		count += bits.OnesCount64(binary.LittleEndian.Uint64(mask[i:]))
	}
	for ; i < len(mask); i++ {
		count += int(mask[i])
	}
	return count
}

func maskIndicesGeneric(mask []byte, dst []uint32) []uint32 {
	for i, b := range mask {
		if b != 0 {
			dst = append(dst, uint32(i))
		}
	}
	return dst
}

// maskIndicesWords skips runs of eight empty slots with a single load.
func maskIndicesWords(mask []byte, dst []uint32) []uint32 {
	i := 0
	for ; i+8 <= len(mask); i += 8 {
		if binary.LittleEndian.Uint64(mask[i:]) == 0 {
			continue
		}
		for j := i; j < i+8; j++ {
			if mask[j] != 0 {
				dst = append(dst, uint32(j))
			}
		}
	}
	for ; i < len(mask); i++ {
		if mask[i] != 0 {
			dst = append(dst, uint32(i))
		}
	}
	return dst
}
