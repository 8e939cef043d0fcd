package roi

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/roisim/hooking"
	"github.com/sarchlab/roisim/timing"
)

// HookPosTransition marks that a Machine has handled an exit event. The
// hook detail is a Transition.
var HookPosTransition = &hooking.HookPos{Name: "ROI Transition"}

// Action is what a Machine asked the engine to do for an event.
type Action int

// Actions requested from the controller.
const (
	ActionNone Action = iota
	ActionResetStats
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionResetStats:
		return "reset-stats"
	case ActionExit:
		return "exit"
	default:
		return "none"
	}
}

// Transition records how a Machine handled an exit event.
type Transition struct {
	Event  ExitEvent
	Time   timing.VTimeInTick
	From   State
	To     State
	Action Action
}

// Machine is the ROI state machine. It is driven by the engine from inside
// event processing and may be read concurrently, for example by a monitor.
type Machine struct {
	hooking.HookableBase

	lock   sync.RWMutex
	policy Policy
	state  State
	resets int
	exits  int
}

// NewMachine creates a Machine that waits for the start of the region of
// interest.
func NewMachine(policy Policy) *Machine {
	return &Machine{
		policy: policy,
		state:  AwaitingStart,
	}
}

// Handlers returns one handler per exit event, ready to be installed in an
// engine.
func (m *Machine) Handlers() map[ExitEvent]ExitHandler {
	handlers := make(map[ExitEvent]ExitHandler)

	for _, evt := range Events() {
		handlers[evt] = func(ctl Controller) error {
			return m.Handle(evt, ctl)
		}
	}

	return handlers
}

// Handle processes one exit event.
func (m *Machine) Handle(evt ExitEvent, ctl Controller) error {
	if ctl == nil {
		return fmt.Errorf("%w: handling %s", ErrNoController, evt)
	}

	if evt != WorkBegin && evt != WorkEnd {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, evt)
	}

	now := ctl.Now()
	t := m.transit(evt, now)

	switch t.Action {
	case ActionResetStats:
		log.Debugf("roi: %s at %d, resetting stats", evt, now)
		ctl.ResetStats()
	case ActionExit:
		log.Debugf("roi: %s at %d, exiting", evt, now)
		ctl.Exit()
	default:
		log.Debugf("roi: %s at %d ignored in state %s (%s)",
			evt, now, t.From, m.policy)
	}

	m.InvokeHook(hooking.HookCtx{
		Domain: m,
		Pos:    HookPosTransition,
		Item:   evt,
		Detail: t,
	})

	return nil
}

func (m *Machine) transit(evt ExitEvent, now timing.VTimeInTick) Transition {
	m.lock.Lock()
	defer m.lock.Unlock()

	t := Transition{
		Event:  evt,
		Time:   now,
		From:   m.state,
		To:     m.state,
		Action: ActionNone,
	}

	if m.policy == Unbounded || m.state == Stopped {
		return t
	}

	switch evt {
	case WorkBegin:
		if m.state == AwaitingStart {
			t.To = Measuring
			t.Action = ActionResetStats
			m.resets++
		}
	case WorkEnd:
		t.To = Stopped
		t.Action = ActionExit
		m.exits++
	}

	m.state = t.To

	return t
}

// Policy returns the policy of the machine.
func (m *Machine) Policy() Policy {
	return m.policy
}

// State returns the current state.
func (m *Machine) State() State {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.state
}

// Resets returns how many times the machine has asked for a stats reset.
func (m *Machine) Resets() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.resets
}

// Exits returns how many times the machine has asked the engine to exit.
func (m *Machine) Exits() int {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.exits
}
