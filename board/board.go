// Package board assembles complete machine descriptions from catalog parts.
package board

import (
	"strconv"

	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/timing"
)

// MachineDescription is the complete configuration of a simulated machine.
// It is a plain value and can be compared with ==.
type MachineDescription struct {
	ClockFreq timing.Freq
	Processor catalog.ProcessorSpec
	Cache     catalog.CacheSpec
	Memory    catalog.MemorySpec
}

// Assemble combines a clock, a processor and a cache hierarchy with the
// single channel DDR4-2400 memory. The inputs are assumed to be valid.
func Assemble(
	freq timing.Freq,
	processor catalog.ProcessorSpec,
	cache catalog.CacheSpec,
) MachineDescription {
	return MachineDescription{
		ClockFreq: freq,
		Processor: processor,
		Cache:     cache,
		Memory:    catalog.SingleChannelDDR4_2400(),
	}
}

// Field is a named property of a machine description.
type Field struct {
	Key   string
	Value string
}

// Fields lists the properties of the machine in a stable order.
func (m MachineDescription) Fields() []Field {
	fields := []Field{
		{"clock", m.ClockFreq.String()},
	}

	switch p := m.Processor.(type) {
	case catalog.InOrderSpec:
		fields = append(fields,
			Field{"processor", string(p.Kind())},
			Field{"processor.cpu_type", string(p.CPUType)},
			Field{"processor.isa", string(p.ISA)},
			Field{"processor.num_cores", strconv.Itoa(p.NumCores)},
		)
	case catalog.OutOfOrderSpec:
		fields = append(fields,
			Field{"processor", string(p.Kind())},
			Field{"processor.cpu_type", string(p.CPUType)},
			Field{"processor.isa", string(p.ISA)},
			Field{"processor.num_cores", strconv.Itoa(p.NumCores)},
			Field{"processor.width", strconv.Itoa(p.Width)},
			Field{"processor.rob_entries", strconv.Itoa(p.ROBEntries)},
			Field{"processor.lq_entries", strconv.Itoa(p.LoadQueueEntries)},
			Field{"processor.sq_entries", strconv.Itoa(p.StoreQueueEntries)},
		)
	}

	fields = append(fields,
		Field{"cache.l1i_size", m.Cache.L1ISize.String()},
		Field{"cache.l1d_size", m.Cache.L1DSize.String()},
		Field{"cache.l2_size", m.Cache.L2Size.String()},
		Field{"cache.block_size", strconv.Itoa(m.Cache.BlockSize)},
		Field{"memory", m.Memory.Name},
		Field{"memory.capacity", m.Memory.Capacity.String()},
	)

	return fields
}
