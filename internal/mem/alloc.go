// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of buffers returned by AllocAligned.
// 64 bytes matches a cache line and an AVX-512 register.
const Alignment = 64

// AllocAligned allocates a zeroed byte slice whose first element sits on a
// 64-byte boundary. Non-positive sizes return nil.
//
// The slice is carved out of a slightly larger allocation, which the returned
// slice keeps alive.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // alignment arithmetic only
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// AlignedSize returns the number of bytes AllocAligned reserves for size.
func AlignedSize(size int) int {
	if size <= 0 {
		return 0
	}
	return size + Alignment
}
