package rangescan

import (
	"fmt"
	"strings"
)

// Backend selects a scan execution strategy.
type Backend uint8

const (
	// Scalar is the sequential reference scan.
	Scalar Backend = iota
	// TaskParallel partitions rows across a worker pool.
	TaskParallel
	// DataParallel evaluates one task per row into a mask.
	DataParallel

	numBackends
)

// Backends lists every backend in a stable order.
func Backends() []Backend {
	return []Backend{Scalar, TaskParallel, DataParallel}
}

// String returns the flag-friendly name of the backend.
func (b Backend) String() string {
	switch b {
	case Scalar:
		return "scalar"
	case TaskParallel:
		return "task-parallel"
	case DataParallel:
		return "data-parallel"
	default:
		return fmt.Sprintf("Backend(%d)", uint8(b))
	}
}

// ParseBackend parses a backend name as produced by String.
// "sequential", "parallel" and "simd" are accepted as aliases.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scalar", "sequential":
		return Scalar, nil
	case "task-parallel", "parallel":
		return TaskParallel, nil
	case "data-parallel", "simd":
		return DataParallel, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}
