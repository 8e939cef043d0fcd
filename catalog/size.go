package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sarchlab/roisim/timing"
)

// Size is a capacity in bytes.
type Size uint64

// Common sizes.
const (
	B   Size = 1
	KiB Size = 1024 * B
	MiB Size = 1024 * KiB
	GiB Size = 1024 * MiB
)

// ParseSize parses strings such as "32KiB", "256 KiB", "1MiB" or "4096".
// Decimal suffixes ("32KB") are honored as powers of 1000.
func ParseSize(s string) (Size, error) {
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: size %q: %v", ErrInvalidParameter, s, err)
	}

	if n == 0 {
		return 0, fmt.Errorf("%w: size %q must be > 0", ErrInvalidParameter, s)
	}

	return Size(n), nil
}

// String prints the size with binary units, for example "32KiB".
func (s Size) String() string {
	return strings.ReplaceAll(humanize.IBytes(uint64(s)), " ", "")
}

// ParseFrequency parses strings such as "3GHz", "2.5 GHz" or "800MHz".
func ParseFrequency(s string) (timing.Freq, error) {
	f, err := timing.ParseFreq(s)
	if err != nil {
		return 0, fmt.Errorf("%w: frequency %q: %v", ErrInvalidParameter, s, err)
	}

	if f <= 0 {
		return 0, fmt.Errorf("%w: frequency %q must be > 0",
			ErrInvalidParameter, s)
	}

	if math.Round(timing.TicksPerSecond/float64(f)) == 0 {
		return 0, fmt.Errorf("%w: frequency %q is above the 1ps clock resolution",
			ErrInvalidParameter, s)
	}

	return f, nil
}
