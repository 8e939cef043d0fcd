package board

import (
	"fmt"

	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/timing"
)

// Builder can build machine descriptions.
type Builder struct {
	freq      timing.Freq
	processor catalog.ProcessorSpec
	cache     catalog.CacheSpec
}

// MakeBuilder creates a builder with the default machine: a 3GHz in-order
// core with a 32KiB L1 and a 256KiB L2.
func MakeBuilder() Builder {
	cache, err := catalog.NewCacheSpec("32KiB", "256KiB")
	if err != nil {
		panic(err)
	}

	return Builder{
		freq:      3 * timing.GHz,
		processor: catalog.NewInOrder(),
		cache:     cache,
	}
}

// WithFreq sets the core clock frequency.
func (b Builder) WithFreq(freq timing.Freq) Builder {
	b.freq = freq
	return b
}

// WithProcessor sets the processor.
func (b Builder) WithProcessor(p catalog.ProcessorSpec) Builder {
	b.processor = p
	return b
}

// WithCache sets the cache hierarchy.
func (b Builder) WithCache(c catalog.CacheSpec) Builder {
	b.cache = c
	return b
}

// Build validates the parts and assembles the machine.
func (b Builder) Build() (MachineDescription, error) {
	if b.freq <= 0 {
		return MachineDescription{}, fmt.Errorf("%w: clock %s must be > 0",
			catalog.ErrInvalidParameter, b.freq)
	}

	if b.processor == nil {
		return MachineDescription{}, fmt.Errorf("%w: processor is not set",
			catalog.ErrInvalidParameter)
	}

	if err := b.processor.Validate(); err != nil {
		return MachineDescription{}, err
	}

	if err := b.cache.Validate(); err != nil {
		return MachineDescription{}, err
	}

	return Assemble(b.freq, b.processor, b.cache), nil
}
