package simd

import (
	"os"
	"strings"
)

// ISA represents the kernel set the mask reductions are bound to.
type ISA uint8

const (
	// Generic is the portable byte-at-a-time implementation.
	Generic ISA = iota
	// Popcount reduces the mask eight bytes at a time with a native 64-bit
	// population count (x86-64 POPCNT, ARM64 CNT).
	Popcount
)

var isaNames = [...]string{
	Generic:  "generic",
	Popcount: "popcount",
}

// String returns the lower-case name of the ISA.
func (i ISA) String() string {
	if int(i) < len(isaNames) {
		return isaNames[i]
	}
	return "unknown"
}

// ParseISA parses an ISA name as accepted by RANGESCAN_SIMD.
func ParseISA(s string) (ISA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range isaNames {
		if name == s {
			return ISA(i), true
		}
	}
	return Generic, false
}

// Set once by the platform init; read-only afterwards.
var (
	activeISA   ISA
	hasOverride bool

	hasPopcount bool
)

// initCapabilities picks the ISA after the platform init has filled in the
// CPU feature flags. RANGESCAN_SIMD overrides the choice when the requested
// ISA is available; an unavailable override falls back to auto-detection.
func initCapabilities() {
	if override := os.Getenv("RANGESCAN_SIMD"); override != "" {
		if isa, ok := ParseISA(override); ok {
			hasOverride = true
			if isISAAvailable(isa) {
				activeISA = isa
				selectKernels()
				return
			}
		}
	}

	activeISA = selectBestISA()
	selectKernels()
}

func isISAAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case Popcount:
		return hasPopcount
	default:
		return false
	}
}

func selectBestISA() ISA {
	if hasPopcount {
		return Popcount
	}
	return Generic
}

// selectKernels binds the mask kernels for the active ISA.
func selectKernels() {
	if activeISA == Popcount {
		kernelCountOnes = countOnesWords
		kernelMaskIndices = maskIndicesWords
		return
	}
	kernelCountOnes = countOnesGeneric
	kernelMaskIndices = maskIndicesGeneric
}

// ActiveISA returns the ISA the kernels are bound to.
func ActiveISA() ISA { return activeISA }

// IsOverridden reports whether RANGESCAN_SIMD was set.
func IsOverridden() bool { return hasOverride }

// HasPopcount reports whether the CPU has a native 64-bit population count.
func HasPopcount() bool { return hasPopcount }

// ForceISA rebinds the kernels as if isa were active and returns a function
// restoring the previous binding. Unavailable ISAs are ignored. Intended for
// tests and benchmarks; not safe for concurrent use with running kernels.
func ForceISA(isa ISA) (restore func()) {
	prev := activeISA
	if isISAAvailable(isa) {
		activeISA = isa
		selectKernels()
	}
	return func() {
		activeISA = prev
		selectKernels()
	}
}
