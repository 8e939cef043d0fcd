package timing

import (
	"github.com/sarchlab/roisim/hooking"
)

// TimeTeller can be used to get the current time.
type TimeTeller interface {
	Now() VTimeInTick
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	TimeTeller

	Schedule(e Event)
}

// An Engine is a unit that keeps the discrete event simulation run.
type Engine interface {
	hooking.Hookable
	EventScheduler

	// Run will process all the events until the simulation finishes, Stop is
	// called, or a handler returns an error.
	Run() error

	// Stop asks Run to return once the event being handled completes. Events
	// still in the queue are kept.
	Stop()

	// Pause will pause the simulation until continue is called.
	Pause()

	// Continue will continue the paused simulation
	Continue()
}
