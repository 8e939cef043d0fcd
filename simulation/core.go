package simulation

import (
	"github.com/sarchlab/roisim/mem/cache"
	"github.com/sarchlab/roisim/monitoring"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/workload"
)

const (
	mulLatency = 3

	// mispredictPenalty is the number of cycles between dispatching a
	// mispredicted branch and resolving it.
	mispredictPenalty = 5

	coreName = "board.processor.cores.core"
)

// frontEnd fetches instructions through the L1 instruction cache. Only the
// first instruction of a cache line probes the cache, and only the cycles
// beyond an L1 hit stall the pipeline.
type frontEnd struct {
	mem     *cache.Hierarchy
	line    uint64
	hasLine bool
}

func (f *frontEnd) fetchPenalty(pc uint64) int {
	line := f.mem.L1I.LineAddr(pc)
	if f.hasLine && line == f.line {
		return 0
	}

	f.line = line
	f.hasLine = true

	return f.mem.Fetch(pc) - f.mem.L1I.HitLatency()
}

func execLatency(inst workload.Instruction, mem *cache.Hierarchy) int {
	switch inst.Op {
	case workload.OpMul:
		return mulLatency
	case workload.OpLoad:
		return mem.Load(inst.Addr)
	case workload.OpStore:
		return mem.Store(inst.Addr)
	default:
		return 1
	}
}

func counter(registry *stats.Registry, path string) *stats.Counter {
	return registry.Counter(stats.Split(path)...)
}

type progress struct {
	bar *monitoring.ProgressBar
}

func (p progress) retire() {
	if p.bar != nil {
		p.bar.IncrementFinished(1)
	}
}
