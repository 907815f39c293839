package rangescan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/rangescan/internal/resource"
	"github.com/hupe1980/rangescan/scan"
)

var (
	// ErrUnknownBackend is returned for a Backend value or name that does
	// not exist.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrResourceExhausted is returned when a scan cannot reserve memory for
	// its buffers. See WithMemoryLimit.
	ErrResourceExhausted = scan.ErrResourceExhausted

	// ErrClosed is returned when the engine is used after Close.
	ErrClosed = errors.New("engine closed")
)

// ErrBackendMismatch is returned by Verify when backends disagree on the
// number of matching rows.
type ErrBackendMismatch struct {
	Counts map[Backend]int
}

func (e *ErrBackendMismatch) Error() string {
	parts := make([]string, 0, len(e.Counts))
	for _, b := range Backends() {
		if c, ok := e.Counts[b]; ok {
			parts = append(parts, fmt.Sprintf("%s=%d", b, c))
		}
	}
	return "backend count mismatch: " + strings.Join(parts, " ")
}

// translateError maps errors of the scan layer onto the engine's errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, scan.ErrClosed) {
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	if errors.Is(err, resource.ErrMemoryLimitExceeded) && !errors.Is(err, ErrResourceExhausted) {
		return fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}

	return err
}
