package scan

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultTileSize is the number of per-row tasks a CPUDevice hands to a lane
// at once. It is a multiple of 64 so tiles of an aligned mask start on their
// own cache line.
const DefaultTileSize = 16 * 1024

// Kernel processes the logical per-row tasks lo..hi-1. Task i may write only
// output slot i; tasks never observe each other.
type Kernel func(lo, hi int)

// Device executes a kernel over a one-dimensional extent.
//
// Dispatch is a single bulk operation with one completion point: when it
// returns, every task has finished and all writes are visible to the caller.
type Device interface {
	// Name identifies the device in logs and reports.
	Name() string
	// Lanes is the number of tiles that may run at the same time.
	Lanes() int
	// Dispatch runs k over [0, extent) and waits for completion.
	Dispatch(extent int, k Kernel) error
}

// CPUDevice simulates a wide device on goroutines. The extent is cut into
// tiles which are scheduled on at most Lanes goroutines.
type CPUDevice struct {
	lanes    int
	tileSize int
}

var _ Device = (*CPUDevice)(nil)

// NewCPUDevice creates a software device. Zero values select GOMAXPROCS
// lanes and DefaultTileSize.
func NewCPUDevice(lanes, tileSize int) *CPUDevice {
	if lanes <= 0 {
		lanes = runtime.GOMAXPROCS(0)
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return &CPUDevice{lanes: lanes, tileSize: tileSize}
}

// Name implements Device.
func (d *CPUDevice) Name() string { return "cpu" }

// Lanes implements Device.
func (d *CPUDevice) Lanes() int { return d.lanes }

// TileSize returns the number of tasks per tile.
func (d *CPUDevice) TileSize() int { return d.tileSize }

// Dispatch implements Device.
func (d *CPUDevice) Dispatch(extent int, k Kernel) error {
	if extent <= 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(d.lanes)

	for lo := 0; lo < extent; lo += d.tileSize {
		hi := min(lo+d.tileSize, extent)
		g.Go(func() error {
			return runTile(k, lo, hi)
		})
	}

	return g.Wait()
}

// SerialDevice runs the whole extent as one tile on the calling goroutine.
// It is the single-lane reference for CPUDevice.
type SerialDevice struct{}

var _ Device = SerialDevice{}

// Name implements Device.
func (SerialDevice) Name() string { return "serial" }

// Lanes implements Device.
func (SerialDevice) Lanes() int { return 1 }

// Dispatch implements Device.
func (SerialDevice) Dispatch(extent int, k Kernel) error {
	if extent <= 0 {
		return nil
	}
	return runTile(k, 0, extent)
}

// runTile runs one tile and turns a panic into ErrWorkerFault.
func runTile(k Kernel, lo, hi int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tile [%d,%d): %v", ErrWorkerFault, lo, hi, r)
		}
	}()
	k(lo, hi)
	return nil
}
