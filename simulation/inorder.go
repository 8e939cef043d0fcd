package simulation

import (
	"github.com/sarchlab/roisim/mem/cache"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/workload"
)

// inOrderCore is a single-issue core. Each instruction occupies the core
// until its fetch and execution latencies have passed.
type inOrderCore struct {
	trace    *workload.Trace
	mem      *cache.Hierarchy
	exits    *exitDispatcher
	front    frontEnd
	progress progress

	next  int
	stall int

	numInsts  *stats.Counter
	numCycles *stats.Counter
}

func newInOrderCore(
	trace *workload.Trace,
	mem *cache.Hierarchy,
	exits *exitDispatcher,
	registry *stats.Registry,
	p progress,
) *inOrderCore {
	return &inOrderCore{
		trace:     trace,
		mem:       mem,
		exits:     exits,
		front:     frontEnd{mem: mem},
		progress:  p,
		numInsts:  counter(registry, stats.PathInOrderExecuted),
		numCycles: counter(registry, stats.PathCycles),
	}
}

func (c *inOrderCore) Tick() bool {
	if c.stall == 0 && c.next >= c.trace.Len() {
		return false
	}

	c.numCycles.Inc()

	if c.stall > 0 {
		c.stall--
		return true
	}

	inst := c.trace.At(c.next)
	c.next++

	if inst.Op.IsROIMarker() {
		c.exits.raise(inst.Op)
		return true
	}

	latency := c.front.fetchPenalty(inst.PC) + execLatency(inst, c.mem)
	c.stall = latency - 1

	c.numInsts.Inc()
	c.progress.retire()

	return true
}
