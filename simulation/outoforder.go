package simulation

import (
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/mem/cache"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/workload"
)

type robEntry struct {
	inst      workload.Instruction
	readyAt   uint64
	wrongPath bool
}

// outOfOrderCore is a superscalar core with a reorder buffer and split load
// and store queues. Every cycle it resolves the pending mispredicted branch,
// commits finished instructions in order and dispatches new ones. After a
// mispredicted branch it keeps dispatching wrong-path instructions, which
// execute but are squashed once the branch resolves.
type outOfOrderCore struct {
	spec     catalog.OutOfOrderSpec
	trace    *workload.Trace
	mem      *cache.Hierarchy
	exits    *exitDispatcher
	front    frontEnd
	progress progress

	cycle        uint64
	next         int
	rob          []*robEntry
	loads        int
	stores       int
	fetchReadyAt uint64
	branch       *robEntry

	committed   *stats.Counter
	executed    *stats.Counter
	numCycles   *stats.Counter
	squashed    *stats.Counter
	mispredicts *stats.Counter
	robFull     *stats.Counter
	lsqFull     *stats.Counter
}

func newOutOfOrderCore(
	spec catalog.OutOfOrderSpec,
	trace *workload.Trace,
	mem *cache.Hierarchy,
	exits *exitDispatcher,
	registry *stats.Registry,
	p progress,
) *outOfOrderCore {
	return &outOfOrderCore{
		spec:        spec,
		trace:       trace,
		mem:         mem,
		exits:       exits,
		front:       frontEnd{mem: mem},
		progress:    p,
		committed:   counter(registry, stats.PathOutOfOrderCommitted),
		executed:    counter(registry, stats.PathOutOfOrderExecuted),
		numCycles:   counter(registry, stats.PathCycles),
		squashed:    counter(registry, coreName+".squashedInsts"),
		mispredicts: counter(registry, coreName+".branchMispredicts"),
		robFull:     counter(registry, coreName+".robFullEvents"),
		lsqFull:     counter(registry, coreName+".lsqFullEvents"),
	}
}

func (c *outOfOrderCore) done() bool {
	return c.next >= c.trace.Len() &&
		len(c.rob) == 0 &&
		c.branch == nil
}

func (c *outOfOrderCore) Tick() bool {
	if c.done() {
		return false
	}

	c.cycle++
	c.numCycles.Inc()

	c.resolve()
	c.commit()
	c.dispatch()

	return true
}

func (c *outOfOrderCore) resolve() {
	if c.branch == nil || c.cycle < c.branch.readyAt {
		return
	}

	kept := c.rob[:0]
	squashed := 0
	for _, e := range c.rob {
		if e.wrongPath {
			squashed++
			continue
		}

		kept = append(kept, e)
	}

	c.rob = kept
	c.squashed.Add(float64(squashed))
	c.branch = nil
}

func (c *outOfOrderCore) commit() {
	for i := 0; i < c.spec.CommitWidth && len(c.rob) > 0; i++ {
		head := c.rob[0]
		if head.wrongPath || head.readyAt > c.cycle {
			return
		}

		c.rob = c.rob[1:]

		switch head.inst.Op {
		case workload.OpLoad:
			c.loads--
		case workload.OpStore:
			c.stores--
		}

		c.committed.Inc()
		c.progress.retire()
	}
}

func (c *outOfOrderCore) dispatch() {
	if c.cycle < c.fetchReadyAt {
		return
	}

	for i := 0; i < c.spec.DispatchWidth; i++ {
		if c.branch != nil {
			if !c.dispatchWrongPath() {
				return
			}

			continue
		}

		if c.next >= c.trace.Len() {
			return
		}

		inst := c.trace.At(c.next)

		if inst.Op.IsROIMarker() {
			c.serialize(inst)
			return
		}

		if !c.hasRoomFor(inst) {
			return
		}

		if penalty := c.front.fetchPenalty(inst.PC); penalty > 0 {
			c.fetchReadyAt = c.cycle + uint64(penalty)
			return
		}

		c.issue(inst)
		c.next++

		if c.branch != nil {
			return
		}
	}
}

// serialize waits for the reorder buffer to drain before the ROI marker
// raises its exit event.
func (c *outOfOrderCore) serialize(inst workload.Instruction) {
	if len(c.rob) > 0 {
		return
	}

	c.next++
	c.exits.raise(inst.Op)
}

func (c *outOfOrderCore) hasRoomFor(inst workload.Instruction) bool {
	if len(c.rob) >= c.spec.ROBEntries {
		c.robFull.Inc()
		return false
	}

	switch {
	case inst.Op == workload.OpLoad && c.loads >= c.spec.LoadQueueEntries,
		inst.Op == workload.OpStore && c.stores >= c.spec.StoreQueueEntries:
		c.lsqFull.Inc()
		return false
	}

	return true
}

func (c *outOfOrderCore) issue(inst workload.Instruction) {
	e := &robEntry{
		inst:    inst,
		readyAt: c.cycle + uint64(execLatency(inst, c.mem)),
	}

	switch inst.Op {
	case workload.OpLoad:
		c.loads++
	case workload.OpStore:
		c.stores++
	case workload.OpBranch:
		if inst.Mispredict {
			e.readyAt = c.cycle + mispredictPenalty
			c.branch = e
			c.mispredicts.Inc()
		}
	}

	c.rob = append(c.rob, e)
	c.executed.Inc()
}

func (c *outOfOrderCore) dispatchWrongPath() bool {
	if len(c.rob) >= c.spec.ROBEntries {
		return false
	}

	c.rob = append(c.rob, &robEntry{
		inst:      workload.Instruction{Op: workload.OpALU},
		readyAt:   c.cycle + 1,
		wrongPath: true,
	})
	c.executed.Inc()

	return true
}
