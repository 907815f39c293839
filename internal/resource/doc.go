// Package resource implements memory admission control for scan buffers.
//
// Scans reserve the bytes of their result and working buffers before they
// allocate them. When a hard limit is configured and the reservation does not
// fit, the scan fails fast with ErrMemoryLimitExceeded instead of allocating:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	res, err := rc.Reserve(int64(n) * row.Size)
//	if err != nil {
//	    return err // ErrMemoryLimitExceeded
//	}
//	defer res.Release()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully: reservations always succeed
// and nothing is tracked. This allows optional limits without nil checks.
package resource
