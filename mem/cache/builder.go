package cache

import (
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/mem/cache/internal/tagging"
	"github.com/sarchlab/roisim/stats"
)

// Builder can build cache hierarchies.
type Builder struct {
	spec     catalog.CacheSpec
	memory   LowerLevel
	registry *stats.Registry
	statPath []string
}

// MakeBuilder creates a builder with the default 32KiB L1 and 256KiB L2.
func MakeBuilder() Builder {
	spec, err := catalog.NewCacheSpec("32KiB", "256KiB")
	if err != nil {
		panic(err)
	}

	return Builder{
		spec:     spec,
		registry: stats.NewRegistry(),
		statPath: []string{"cache_hierarchy"},
	}
}

// WithSpec sets the sizes and latencies of the hierarchy.
func (b Builder) WithSpec(spec catalog.CacheSpec) Builder {
	b.spec = spec
	return b
}

// WithMemory sets the level that serves L2 misses.
func (b Builder) WithMemory(memory LowerLevel) Builder {
	b.memory = memory
	return b
}

// WithStats makes the caches count hits, misses and write-backs in the
// registry, under the given path.
func (b Builder) WithStats(registry *stats.Registry, path ...string) Builder {
	b.registry = registry
	b.statPath = path
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.memory == nil {
		panic("cache hierarchy requires a memory")
	}

	if err := b.spec.Validate(); err != nil {
		panic(err)
	}
}

// Build creates the hierarchy.
func (b Builder) Build() *Hierarchy {
	b.parametersMustBeValid()

	s := b.spec

	return &Hierarchy{
		L1I: b.buildCache("l1i-cache-0",
			s.NumSets(s.L1ISize, s.L1Assoc), s.L1Assoc, s.L1HitLatency),
		L1D: b.buildCache("l1d-cache-0",
			s.NumSets(s.L1DSize, s.L1Assoc), s.L1Assoc, s.L1HitLatency),
		L2: b.buildCache("l2-cache-0",
			s.NumSets(s.L2Size, s.L2Assoc), s.L2Assoc, s.L2HitLatency),
		memory: b.memory,
	}
}

func (b Builder) buildCache(name string, numSets, numWays, latency int) *Cache {
	counter := func(stat string) *stats.Counter {
		p := append(append([]string{}, b.statPath...), name, stat)
		return b.registry.Counter(p...)
	}

	return &Cache{
		name:         name,
		blockSize:    uint64(b.spec.BlockSize),
		hitLatency:   latency,
		tags:         tagging.NewTagArray(numSets, numWays, b.spec.BlockSize),
		victimFinder: tagging.NewLRUVictimFinder(),
		hits:         counter("overallHits"),
		misses:       counter("overallMisses"),
		writebacks:   counter("writebacks"),
	}
}
