// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Data-parallel scan masks are allocated on 64-byte boundaries so every tile
// handed to a lane starts on its own cache line when the tile size is a
// multiple of 64.
package mem
