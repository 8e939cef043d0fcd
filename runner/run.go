// Package runner owns one simulation run: it validates the parameters,
// assembles the machine, installs the ROI handlers in the engine and
// reports the result.
package runner

import (
	"errors"
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/roisim/board"
	"github.com/sarchlab/roisim/catalog"
	"github.com/sarchlab/roisim/roi"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/workload"
)

var (
	// ErrAlreadyExecuted is returned when a run is executed twice.
	ErrAlreadyExecuted = errors.New("runner: run already executed")

	// ErrNoEngine is returned when a run is created without an engine.
	ErrNoEngine = errors.New("runner: no engine")
)

// Engine is the simulation engine that a run drives.
type Engine interface {
	// Run executes the workload on the machine. It calls the handler of an
	// exit event synchronously when the workload raises it.
	Run(
		desc board.MachineDescription,
		w workload.Workload,
		handlers map[roi.ExitEvent]roi.ExitHandler,
	) (stats.RunResult, error)

	// Snapshot returns the current statistics.
	Snapshot() stats.Snapshot
}

// Run is a single simulation. All the parameters are checked when the run is
// created, before anything is simulated.
type Run struct {
	lock     sync.Mutex
	kind     catalog.ProcessorKind
	machine  board.MachineDescription
	roi      *roi.Machine
	engine   Engine
	executed bool
}

// NewRun validates the config and assembles the machine.
func NewRun(cfg Config, engine Engine) (*Run, error) {
	if engine == nil {
		return nil, ErrNoEngine
	}

	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}

	machine, err := cfg.Machine()
	if err != nil {
		return nil, err
	}

	return &Run{
		kind:    kind,
		machine: machine,
		roi:     roi.NewMachine(cfg.Policy()),
		engine:  engine,
	}, nil
}

// Machine returns the assembled machine.
func (r *Run) Machine() board.MachineDescription {
	return r.machine
}

// Kind returns the processor kind of the run.
func (r *Run) Kind() catalog.ProcessorKind {
	return r.kind
}

// ROI returns the state machine that bounds the measurement.
func (r *Run) ROI() *roi.Machine {
	return r.roi
}

// Execute runs the workload and returns its summary. A run can only be
// executed once. Engines that are io.Closers are closed after the run.
func (r *Run) Execute(w workload.Workload) (summary stats.Summary, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.executed {
		return nil, ErrAlreadyExecuted
	}

	r.executed = true

	if closer, ok := r.engine.(io.Closer); ok {
		defer func() {
			closeErr := closer.Close()
			if err == nil && closeErr != nil {
				summary = nil
				err = fmt.Errorf("runner: closing engine: %w", closeErr)
			}
		}()
	}

	for _, f := range r.machine.Fields() {
		log.Debugf("runner: %s = %s", f.Key, f.Value)
	}

	result, err := r.engine.Run(r.machine, w, r.roi.Handlers())
	if err != nil {
		return nil, err
	}

	log.Infof("runner: %s stopped in state %s after %d resets",
		w.Name(), r.roi.State(), r.roi.Resets())

	return stats.Report(result, r.kind)
}
