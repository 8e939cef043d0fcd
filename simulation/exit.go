package simulation

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/roisim/roi"
	"github.com/sarchlab/roisim/stats"
	"github.com/sarchlab/roisim/timing"
	"github.com/sarchlab/roisim/workload"
)

// exitEvent is raised by a core when the workload reaches an ROI marker.
type exitEvent struct {
	*timing.EventBase
	name roi.ExitEvent
}

// ExitRecord is one row of the exit_events table.
type ExitRecord struct {
	Event string
	Time  uint64
}

// exitDispatcher turns exit events into calls of the installed handlers.
// Exit events are scheduled at the current time, so simulated time does not
// advance until the handler returns.
type exitDispatcher struct {
	engine   *timing.SerialEngine
	registry *stats.Registry
	handlers map[roi.ExitEvent]roi.ExitHandler

	current roi.ExitEvent
	begin   timing.VTimeInTick
	cause   stats.ExitCause
	records []ExitRecord
}

func newExitDispatcher(
	engine *timing.SerialEngine,
	registry *stats.Registry,
	handlers map[roi.ExitEvent]roi.ExitHandler,
) *exitDispatcher {
	return &exitDispatcher{
		engine:   engine,
		registry: registry,
		handlers: handlers,
		cause:    stats.ExitCauseCompleted,
	}
}

func (d *exitDispatcher) Name() string {
	return "exit-dispatcher"
}

func (d *exitDispatcher) raise(op workload.Op) {
	name := roi.WorkBegin
	if op == workload.OpWorkEnd {
		name = roi.WorkEnd
	}

	evt := exitEvent{
		EventBase: timing.NewEventBase(d.engine.Now(), d),
		name:      name,
	}
	d.engine.Schedule(evt)
}

// Handle calls the handler of the exit event. Events without a handler are
// acknowledged and ignored.
func (d *exitDispatcher) Handle(e timing.Event) error {
	evt, ok := e.(exitEvent)
	if !ok {
		return fmt.Errorf("%s: unexpected event %T", d.Name(), e)
	}

	d.records = append(d.records, ExitRecord{
		Event: string(evt.name),
		Time:  uint64(evt.Time()),
	})

	handler, found := d.handlers[evt.name]
	if !found || handler == nil {
		log.Debugf("simulation: no handler for %s at %d", evt.name, evt.Time())
		return nil
	}

	d.current = evt.name

	return handler(d)
}

// Now returns the current simulated time.
func (d *exitDispatcher) Now() timing.VTimeInTick {
	return d.engine.Now()
}

// ResetStats zeroes every counter and restarts the measured interval.
func (d *exitDispatcher) ResetStats() {
	d.registry.Reset()
	d.begin = d.engine.Now()
}

// Exit stops the engine after the current event.
func (d *exitDispatcher) Exit() {
	d.cause = stats.ExitCause(d.current)
	d.engine.Stop()
}
