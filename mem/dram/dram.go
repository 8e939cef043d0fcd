// Package dram models the access latency of a DDR memory channel.
//
// The model keeps one open row per bank and charges the activate, column
// and precharge timings of the memory preset, converted to core cycles.
package dram

import (
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/timing"
)

// PagePolicy decides whether a row stays open after an access.
type PagePolicy int

const (
	// OpenPage keeps the row open until another row of the bank is needed.
	OpenPage PagePolicy = iota

	// ClosePage precharges the bank after every access.
	ClosePage
)

// RowBufferResult classifies an access by the state of the row buffer.
type RowBufferResult int

// Row buffer outcomes.
const (
	RowHit RowBufferResult = iota
	RowClosed
	RowConflict
)

type bank struct {
	openRow uint64
	isOpen  bool
}

// Controller is a single memory channel.
type Controller struct {
	name       string
	spec       catalog.MemorySpec
	coreFreq   timing.Freq
	policy     PagePolicy
	rowBytes   uint64
	banks      []bank
	busPeriod  timing.VTimeInTick
	burstCycle int

	reads        *stats.Counter
	writes       *stats.Counter
	rowHits      *stats.Counter
	rowMisses    *stats.Counter
	rowConflicts *stats.Counter
}

// Name returns the name of the controller.
func (c *Controller) Name() string {
	return c.name
}

// Spec returns the memory preset the controller models.
func (c *Controller) Spec() catalog.MemorySpec {
	return c.spec
}

// Access returns the number of core cycles that a read or a write of one
// cache line takes.
func (c *Controller) Access(addr uint64, write bool) int {
	if write {
		c.writes.Inc()
	} else {
		c.reads.Inc()
	}

	busCycles := c.burstCycle + c.spec.TCL

	switch c.touchRow(addr) {
	case RowHit:
		c.rowHits.Inc()
	case RowClosed:
		c.rowMisses.Inc()
		busCycles += c.spec.TRCD
	case RowConflict:
		c.rowConflicts.Inc()
		busCycles += c.spec.TRP + c.spec.TRCD
	}

	return c.coreFreq.CyclesIn(timing.VTimeInTick(busCycles) * c.busPeriod)
}

func (c *Controller) touchRow(addr uint64) RowBufferResult {
	rowID := addr / c.rowBytes
	b := &c.banks[rowID%uint64(len(c.banks))]
	row := rowID / uint64(len(c.banks))

	result := RowClosed
	if b.isOpen {
		result = RowConflict
		if b.openRow == row {
			result = RowHit
		}
	}

	b.openRow = row
	b.isOpen = c.policy == OpenPage

	return result
}

// Reset precharges every bank.
func (c *Controller) Reset() {
	for i := range c.banks {
		c.banks[i] = bank{}
	}
}
