package timing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// VTimeInTick is a point in simulated time, counted in picoseconds.
type VTimeInTick uint64

// TicksPerSecond is the resolution of VTimeInTick.
const TicksPerSecond = 1e12

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

var (
	// ErrZeroFrequency is returned when a frequency of zero or less is given.
	ErrZeroFrequency = errors.New("timing: frequency must be positive")

	// ErrInvalidFrequency is returned when a frequency string cannot be
	// parsed.
	ErrInvalidFrequency = errors.New("timing: invalid frequency")
)

var freqPattern = regexp.MustCompile(`^([0-9]*\.?[0-9]+)\s*([kKmMgG]?)[hH][zZ]$`)

// ParseFreq converts strings such as "3GHz", "2.5 GHz" or "800MHz" into a
// Freq.
func ParseFreq(s string) (Freq, error) {
	m := freqPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}

	unit := Hz
	switch strings.ToLower(m[2]) {
	case "k":
		unit = KHz
	case "m":
		unit = MHz
	case "g":
		unit = GHz
	}

	f := Freq(value) * unit
	if f <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrZeroFrequency, s)
	}

	return f, nil
}

// String renders the frequency with the largest unit that keeps the value at
// or above one.
func (f Freq) String() string {
	switch {
	case f >= GHz:
		return strconv.FormatFloat(float64(f/GHz), 'f', -1, 64) + "GHz"
	case f >= MHz:
		return strconv.FormatFloat(float64(f/MHz), 'f', -1, 64) + "MHz"
	case f >= KHz:
		return strconv.FormatFloat(float64(f/KHz), 'f', -1, 64) + "KHz"
	default:
		return strconv.FormatFloat(float64(f), 'f', -1, 64) + "Hz"
	}
}

// Period returns the number of ticks between two consecutive clock edges.
// Periods are rounded to whole picoseconds, so 3GHz has a 333-tick period.
func (f Freq) Period() VTimeInTick {
	if f <= 0 {
		panic("frequency cannot be 0")
	}

	p := VTimeInTick(math.Round(TicksPerSecond / float64(f)))
	if p == 0 {
		panic("frequency too high for picosecond resolution")
	}

	return p
}

// Cycle converts a time to the number of whole cycles passed since time 0.
func (f Freq) Cycle(time VTimeInTick) uint64 {
	return uint64(time / f.Period())
}

// ThisTick returns the clock edge at or right after now.
//
//	               Input
//	               (          ]
//	    |----------|----------|----------|----->
//	                          |
//	                          Output
func (f Freq) ThisTick(now VTimeInTick) VTimeInTick {
	p := f.Period()
	count := (now + p - 1) / p

	return count * p
}

// NextTick returns the clock edge strictly after now.
//
//	               Input
//	               [          )
//	    |----------|----------|----------|----->
//	                          |
//	                          Output
func (f Freq) NextTick(now VTimeInTick) VTimeInTick {
	p := f.Period()

	return (now/p + 1) * p
}

// NCyclesLater returns the time n cycles after the current clock edge.
func (f Freq) NCyclesLater(n int, now VTimeInTick) VTimeInTick {
	return f.ThisTick(now) + VTimeInTick(n)*f.Period()
}

// CyclesIn returns how many whole cycles of f fit into d, rounding up so that
// a latency is never shortened.
func (f Freq) CyclesIn(d VTimeInTick) int {
	p := f.Period()

	return int((d + p - 1) / p)
}
