package dram

import (
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/timing"
)

// Builder can build memory controllers.
type Builder struct {
	spec     catalog.MemorySpec
	coreFreq timing.Freq
	policy   PagePolicy
	numBanks int
	rowBytes uint64
	registry *stats.Registry
	statPath []string
}

// MakeBuilder creates a builder for a DDR4-2400 channel with 16 banks and
// 8KiB rows, accessed by a 1GHz core.
func MakeBuilder() Builder {
	return Builder{
		spec:     catalog.SingleChannelDDR4_2400(),
		coreFreq: 1 * timing.GHz,
		policy:   OpenPage,
		numBanks: 16,
		rowBytes: 8192,
	}
}

// WithSpec sets the memory preset.
func (b Builder) WithSpec(spec catalog.MemorySpec) Builder {
	b.spec = spec
	return b
}

// WithCoreFreq sets the frequency that latencies are reported in.
func (b Builder) WithCoreFreq(freq timing.Freq) Builder {
	b.coreFreq = freq
	return b
}

// WithPagePolicy sets the row buffer policy.
func (b Builder) WithPagePolicy(policy PagePolicy) Builder {
	b.policy = policy
	return b
}

// WithNumBanks sets the number of banks.
func (b Builder) WithNumBanks(n int) Builder {
	b.numBanks = n
	return b
}

// WithRowSize sets the number of bytes in one row of a bank.
func (b Builder) WithRowSize(bytes uint64) Builder {
	b.rowBytes = bytes
	return b
}

// WithStats makes the controller count its accesses in the registry, under
// the given path.
func (b Builder) WithStats(registry *stats.Registry, path ...string) Builder {
	b.registry = registry
	b.statPath = path
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.numBanks <= 0 {
		panic("dram must have at least one bank")
	}

	if b.rowBytes == 0 {
		panic("dram row size cannot be 0")
	}

	if b.spec.BusFreq <= 0 || b.coreFreq <= 0 {
		panic("dram frequencies must be positive")
	}
}

// Build creates a new controller.
func (b Builder) Build(name string) *Controller {
	b.parametersMustBeValid()

	registry := b.registry
	path := b.statPath
	if registry == nil {
		registry = stats.NewRegistry()
		path = []string{name}
	}

	counter := func(stat string) *stats.Counter {
		p := append(append([]string{}, path...), stat)
		return registry.Counter(p...)
	}

	return &Controller{
		name:       name,
		spec:       b.spec,
		coreFreq:   b.coreFreq,
		policy:     b.policy,
		rowBytes:   b.rowBytes,
		banks:      make([]bank, b.numBanks),
		busPeriod:  b.spec.BusFreq.Period(),
		burstCycle: b.spec.BurstLength / 2,

		reads:        counter("readReqs"),
		writes:       counter("writeReqs"),
		rowHits:      counter("rowHits"),
		rowMisses:    counter("rowMisses"),
		rowConflicts: counter("rowConflicts"),
	}
}
