// Package roi bounds a measurement to the region of interest that a running
// workload marks with WORK_BEGIN and WORK_END exit events.
//
// A Machine consumes the exit events delivered by the engine and decides,
// according to its Policy, whether to reset the statistics, stop the
// simulation, or do nothing.
//
//	state          WORK_BEGIN                 WORK_END
//	AwaitingStart  ResetStats, -> Measuring   Exit, -> Stopped
//	Measuring      -                          Exit, -> Stopped
//	Stopped        -                          -
//
// Under the Unbounded policy every event is acknowledged and ignored.
package roi

import (
	"errors"
	"fmt"

	"github.com/sarchlab/roisim/timing"
)

// ExitEvent names a checkpoint signaled by the running workload.
type ExitEvent string

// The exit events that delimit the region of interest.
const (
	WorkBegin ExitEvent = "WORK_BEGIN"
	WorkEnd   ExitEvent = "WORK_END"
)

// Events returns the exit events that a Machine handles.
func Events() []ExitEvent {
	return []ExitEvent{WorkBegin, WorkEnd}
}

// Policy selects whether the measurement is bounded by the exit events.
type Policy int

const (
	// Bounded resets the statistics on WORK_BEGIN and stops the simulation
	// on WORK_END.
	Bounded Policy = iota

	// Unbounded measures the whole run and ignores the exit events.
	Unbounded
)

// PolicyFromIgnoreROI maps the ignore_roi option to a Policy.
func PolicyFromIgnoreROI(ignoreROI bool) Policy {
	if ignoreROI {
		return Unbounded
	}

	return Bounded
}

func (p Policy) String() string {
	switch p {
	case Bounded:
		return "bounded"
	case Unbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// State is the progress of a Machine through the region of interest.
type State int

// The states of a Machine.
const (
	AwaitingStart State = iota
	Measuring
	Stopped
)

func (s State) String() string {
	switch s {
	case AwaitingStart:
		return "awaiting-start"
	case Measuring:
		return "measuring"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrNoController is returned when an exit event arrives without an
	// engine controller to act on.
	ErrNoController = errors.New("roi: no engine controller")

	// ErrUnknownEvent is returned for exit events other than WORK_BEGIN and
	// WORK_END.
	ErrUnknownEvent = errors.New("roi: unknown exit event")
)

// Controller is the part of the engine that ROI handlers act on.
type Controller interface {
	// Now returns the current simulated time.
	Now() timing.VTimeInTick

	// ResetStats zeroes every statistic and marks now as the beginning of
	// the measurement.
	ResetStats()

	// Exit stops the simulation once the current event has been processed.
	Exit()
}

// ExitHandler reacts to one exit event. A returned error aborts the run.
type ExitHandler func(ctl Controller) error
