package timing

import (
	"fmt"
	"sync"
)

// TickEvent is a generic event that almost all the component can use to
// update their status.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a new TickEvent
func MakeTickEvent(handler Handler, time VTimeInTick) TickEvent {
	return TickEvent{
		EventBase: EventBase{
			time:    time,
			handler: handler,
		},
	}
}

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	Tick() bool
}

// TickScheduler can help schedule tick events.
type TickScheduler struct {
	lock    sync.Mutex
	handler Handler
	Freq    Freq
	Engine  EventScheduler

	scheduled    bool
	nextTickTime VTimeInTick
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(
	handler Handler,
	engine EventScheduler,
	freq Freq,
) *TickScheduler {
	return &TickScheduler{
		handler: handler,
		Engine:  engine,
		Freq:    freq,
	}
}

// TickNow schedule a Tick event at the current clock edge.
func (t *TickScheduler) TickNow() {
	t.schedule(t.Freq.ThisTick(t.Now()))
}

// TickLater will schedule a tick event at the cycle after the now time.
func (t *TickScheduler) TickLater() {
	t.schedule(t.Freq.NextTick(t.Now()))
}

func (t *TickScheduler) schedule(time VTimeInTick) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.scheduled && t.nextTickTime >= time {
		return
	}

	t.scheduled = true
	t.nextTickTime = time

	t.Engine.Schedule(MakeTickEvent(t.handler, time))
}

// Now returns the current time of the engine.
func (t *TickScheduler) Now() VTimeInTick {
	return t.Engine.Now()
}

// TickingComponent is a type of component that update states from cycle to
// cycle. A programmer would only need to program a tick function for a ticking
// component.
type TickingComponent struct {
	*TickScheduler

	name   string
	ticker Ticker
}

// NewTickingComponent creates a new ticking component.
func NewTickingComponent(
	name string,
	engine EventScheduler,
	freq Freq,
	ticker Ticker,
) *TickingComponent {
	tc := &TickingComponent{
		name:   name,
		ticker: ticker,
	}
	tc.TickScheduler = NewTickScheduler(tc, engine, freq)

	return tc
}

// Name returns the name of the component.
func (c *TickingComponent) Name() string {
	return c.name
}

// Handle triggers the tick function of the TickingComponent. The component
// keeps ticking as long as the ticker reports progress.
func (c *TickingComponent) Handle(e Event) error {
	if _, ok := e.(TickEvent); !ok {
		return fmt.Errorf("%s: unexpected event %T", c.name, e)
	}

	madeProgress := c.ticker.Tick()
	if madeProgress {
		c.TickLater()
	}

	return nil
}
