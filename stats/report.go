package stats

import (
	"fmt"
	"io"

	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/timing"
)

// ExitCause describes why the engine stopped.
type ExitCause string

// Exit causes reported by engines.
const (
	ExitCauseWorkEnd   ExitCause = "WORK_END"
	ExitCauseCompleted ExitCause = "workload completed"
)

// RunResult is what the engine hands back after a run.
type RunResult struct {
	SimulatedBeginTime timing.VTimeInTick
	SimulatedEndTime   timing.VTimeInTick
	Stats              Snapshot
	ExitCause          ExitCause
}

// Elapsed returns the length of the measured interval.
func (r RunResult) Elapsed() (timing.VTimeInTick, error) {
	if r.SimulatedEndTime < r.SimulatedBeginTime {
		return 0, fmt.Errorf("%w: end %d is before begin %d",
			ErrInvalidTimeRange, r.SimulatedEndTime, r.SimulatedBeginTime)
	}

	return r.SimulatedEndTime - r.SimulatedBeginTime, nil
}

// Summary is the console report of a run. It is either a SimpleSummary or
// an OutOfOrderSummary.
type Summary interface {
	// Render prints the summary, one metric per line.
	Render(w io.Writer) error

	isSummary()
}

// SimpleSummary is the report of an in-order run.
type SimpleSummary struct {
	SimulatedTimeMs      float64
	ExecutedInstructions uint64
	Cycles               uint64
}

func (SimpleSummary) isSummary() {}

// Render prints the simulated time, executed instructions and cycles.
func (s SimpleSummary) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Simulated time (ms): %0.5f\n"+
			"Executed instructions: %d\n"+
			"Cycles: %d\n",
		s.SimulatedTimeMs, s.ExecutedInstructions, s.Cycles)

	return err
}

// OutOfOrderSummary is the report of an out-of-order run.
type OutOfOrderSummary struct {
	SimulatedTimeMs       float64
	CommittedInstructions uint64
	ExecutedInstructions  uint64
	Cycles                uint64
}

func (OutOfOrderSummary) isSummary() {}

// Render prints the simulated time, committed and executed instructions and
// cycles.
func (s OutOfOrderSummary) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Simulated time (ms): %0.5f\n"+
			"Committed instructions: %d\n"+
			"Executed instructions: %d\n"+
			"Cycles: %d\n",
		s.SimulatedTimeMs, s.CommittedInstructions,
		s.ExecutedInstructions, s.Cycles)

	return err
}

// Report extracts the summary that matches the processor kind.
func Report(r RunResult, kind catalog.ProcessorKind) (Summary, error) {
	if kind != catalog.KindSimple && kind != catalog.KindOutOfOrder {
		return nil, fmt.Errorf("%w: %q",
			catalog.ErrUnknownProcessorVariant, kind)
	}

	elapsed, err := r.Elapsed()
	if err != nil {
		return nil, err
	}

	ms := float64(elapsed) / 1e9

	cycles, err := r.Stats.LookupPath(PathCycles)
	if err != nil {
		return nil, err
	}

	if kind == catalog.KindOutOfOrder {
		committed, err := r.Stats.LookupPath(PathOutOfOrderCommitted)
		if err != nil {
			return nil, err
		}

		executed, err := r.Stats.LookupPath(PathOutOfOrderExecuted)
		if err != nil {
			return nil, err
		}

		return OutOfOrderSummary{
			SimulatedTimeMs:       ms,
			CommittedInstructions: uint64(committed),
			ExecutedInstructions:  uint64(executed),
			Cycles:                uint64(cycles),
		}, nil
	}

	executed, err := r.Stats.LookupPath(PathInOrderExecuted)
	if err != nil {
		return nil, err
	}

	return SimpleSummary{
		SimulatedTimeMs:      ms,
		ExecutedInstructions: uint64(executed),
		Cycles:               uint64(cycles),
	}, nil
}
