package catalog

import "github.com/sarchlab/roisim/timing"

// MemoryType names a DRAM standard.
type MemoryType string

// MemoryTypeDDR4 is the only standard the catalog provides.
const MemoryTypeDDR4 MemoryType = "DDR4"

// MemorySpec describes the main memory attached to the machine. Timing
// parameters are counted in bus clock cycles.
type MemorySpec struct {
	Name         string
	Type         MemoryType
	NumChannels  int
	Capacity     Size
	DataRate     int
	BusFreq      timing.Freq
	BusWidthBits int
	BurstLength  int
	TCL          int
	TRCD         int
	TRP          int
	TRAS         int
}

// SingleChannelDDR4_2400 returns a single 32GiB channel of DDR4-2400
// memory.
//
//nolint:revive,stylecheck
func SingleChannelDDR4_2400() MemorySpec {
	return MemorySpec{
		Name:         "SingleChannelDDR4_2400",
		Type:         MemoryTypeDDR4,
		NumChannels:  1,
		Capacity:     32 * GiB,
		DataRate:     2400,
		BusFreq:      1200 * timing.MHz,
		BusWidthBits: 64,
		BurstLength:  8,
		TCL:          17,
		TRCD:         17,
		TRP:          17,
		TRAS:         39,
	}
}
