// Package simulation provides the reference engine that runs a workload
// trace on an assembled machine and reports its statistics.
package simulation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/roisim/board"
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/datarecording"
	"github.com/sarchlab/roisim/mem/cache"
	"github.com/sarchlab/roisim/mem/dram"
	"github.com/sarchlab/roisim/monitoring"
	"github.com/sarchlab/roisim/roi"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/timing"
	"github.com/sarchlab/roisim/workload"
)

// ErrUnsupportedWorkload is returned for workloads that are not instruction
// traces.
var ErrUnsupportedWorkload = errors.New("simulation: unsupported workload")

// An Engine runs workloads on simulated machines. Every run starts from a
// fresh event queue, statistics registry and memory system.
type Engine struct {
	runLock sync.Mutex

	lock     sync.RWMutex
	serial   *timing.SerialEngine
	registry *stats.Registry
	last     stats.Snapshot

	monitor       *monitoring.Monitor
	recorder      datarecording.DataRecorder
	eventLogger   *logrus.Logger
	tablesCreated bool
}

// Run executes the workload until it completes or a handler exits.
func (e *Engine) Run(
	desc board.MachineDescription,
	w workload.Workload,
	handlers map[roi.ExitEvent]roi.ExitHandler,
) (stats.RunResult, error) {
	trace, ok := w.(*workload.Trace)
	if !ok {
		return stats.RunResult{}, fmt.Errorf("%w: %T", ErrUnsupportedWorkload, w)
	}

	e.runLock.Lock()
	defer e.runLock.Unlock()

	serial := timing.NewSerialEngine()
	if e.eventLogger != nil {
		serial.AcceptHook(timing.NewEventLogger(e.eventLogger))
	}

	registry := stats.NewRegistry()

	memCtrl := dram.MakeBuilder().
		WithSpec(desc.Memory).
		WithCoreFreq(desc.ClockFreq).
		WithStats(registry, "board", "memory").
		Build("mem-ctrl-0")

	hierarchy := cache.MakeBuilder().
		WithSpec(desc.Cache).
		WithMemory(memCtrl).
		WithStats(registry, "board", "cache_hierarchy").
		Build()

	exits := newExitDispatcher(serial, registry, handlers)

	bar := e.createProgressBar(trace)

	ticker, err := buildCore(desc.Processor, trace, hierarchy, exits, registry,
		progress{bar: bar})
	if err != nil {
		e.completeProgressBar(bar)
		return stats.RunResult{}, err
	}

	core := timing.NewTickingComponent(coreName, serial, desc.ClockFreq, ticker)

	e.lock.Lock()
	e.serial = serial
	e.registry = registry
	e.lock.Unlock()

	logrus.Infof("simulation: running %s on %s %s core",
		trace.Name(), desc.ClockFreq, desc.Processor.Kind())

	core.TickNow()
	err = serial.Run()

	e.completeProgressBar(bar)

	if err != nil {
		return stats.RunResult{}, err
	}

	result := stats.RunResult{
		SimulatedBeginTime: exits.begin,
		SimulatedEndTime:   serial.Now(),
		Stats:              registry.Snapshot(),
		ExitCause:          exits.cause,
	}

	e.lock.Lock()
	e.last = result.Stats
	e.lock.Unlock()

	logrus.Infof("simulation: %s ended at %d (%s)",
		trace.Name(), result.SimulatedEndTime, result.ExitCause)

	e.record(result, exits.records)

	return result, nil
}

func buildCore(
	p catalog.ProcessorSpec,
	trace *workload.Trace,
	mem *cache.Hierarchy,
	exits *exitDispatcher,
	registry *stats.Registry,
	prog progress,
) (timing.Ticker, error) {
	switch spec := p.(type) {
	case catalog.InOrderSpec:
		return newInOrderCore(trace, mem, exits, registry, prog), nil
	case catalog.OutOfOrderSpec:
		return newOutOfOrderCore(spec, trace, mem, exits, registry, prog), nil
	default:
		return nil, fmt.Errorf("%w: %T", catalog.ErrUnknownProcessorVariant, p)
	}
}

func (e *Engine) createProgressBar(trace *workload.Trace) *monitoring.ProgressBar {
	if e.monitor == nil {
		return nil
	}

	total := trace.Len() -
		trace.Count(workload.OpWorkBegin) -
		trace.Count(workload.OpWorkEnd)

	return e.monitor.CreateProgressBar(trace.Name(), uint64(total))
}

func (e *Engine) completeProgressBar(bar *monitoring.ProgressBar) {
	if bar != nil {
		e.monitor.CompleteProgressBar(bar)
	}
}

// Snapshot returns the statistics of the current run, or of the last run
// once it has finished.
func (e *Engine) Snapshot() stats.Snapshot {
	e.lock.RLock()
	defer e.lock.RUnlock()

	if e.registry != nil {
		return e.registry.Snapshot()
	}

	if e.last != nil {
		return e.last
	}

	return stats.Snapshot{}
}

// Pause stops the running simulation until Continue is called.
func (e *Engine) Pause() {
	e.lock.RLock()
	defer e.lock.RUnlock()

	if e.serial != nil {
		e.serial.Pause()
	}
}

// Continue resumes a paused simulation.
func (e *Engine) Continue() {
	e.lock.RLock()
	defer e.lock.RUnlock()

	if e.serial != nil {
		e.serial.Continue()
	}
}

// Now returns the simulated time of the current run.
func (e *Engine) Now() timing.VTimeInTick {
	e.lock.RLock()
	defer e.lock.RUnlock()

	if e.serial == nil {
		return 0
	}

	return e.serial.Now()
}

// Close releases the event queue and the statistics registry and flushes
// the recorder. The statistics of the last run stay available.
func (e *Engine) Close() error {
	e.lock.Lock()
	if e.registry != nil {
		e.last = e.registry.Snapshot()
	}
	e.serial = nil
	e.registry = nil
	e.lock.Unlock()

	if e.recorder != nil {
		e.recorder.Flush()
	}

	return nil
}
