package timing

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/roisim/hooking"
)

// A SerialEngine is an Engine that always run events one after another.
type SerialEngine struct {
	hooking.HookableBase

	timeLock       sync.RWMutex
	now            VTimeInTick
	queue          *eventQueue
	secondaryQueue *eventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
	stopRequested atomic.Bool
}

// NewSerialEngine creates a SerialEngine
func NewSerialEngine() *SerialEngine {
	e := new(SerialEngine)

	e.queue = newEventQueue()
	e.secondaryQueue = newEventQueue()

	return e
}

// Schedule register an event to be happen in the future
func (e *SerialEngine) Schedule(evt Event) {
	now := e.readNow()
	if evt.Time() < now {
		panic(fmt.Sprintf(
			"timing: cannot schedule event in the past, evt %s @ %d, now %d",
			reflect.TypeOf(evt), evt.Time(), now,
		))
	}

	if evt.IsSecondary() {
		e.secondaryQueue.Push(evt)
		return
	}

	e.queue.Push(evt)
}

func (e *SerialEngine) readNow() VTimeInTick {
	e.timeLock.RLock()
	t := e.now
	e.timeLock.RUnlock()

	return t
}

func (e *SerialEngine) writeNow(t VTimeInTick) {
	e.timeLock.Lock()
	e.now = t
	e.timeLock.Unlock()
}

// Run processes the scheduled events in time order. It returns nil when the
// queue drains or Stop is called, and returns the first handler error
// otherwise.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		if e.stopRequested.CompareAndSwap(true, false) {
			return nil
		}

		if e.noMoreEvent() {
			return nil
		}

		if err := e.runNextEvent(); err != nil {
			return err
		}
	}
}

func (e *SerialEngine) runNextEvent() error {
	e.pauseLock.Lock()
	defer e.pauseLock.Unlock()

	evt := e.nextEvent()
	now := e.readNow()

	if evt.Time() < now {
		panic(fmt.Sprintf(
			"timing: cannot run event in the past, evt %s @ %d, now %d",
			reflect.TypeOf(evt), evt.Time(), now,
		))
	}

	e.writeNow(evt.Time())

	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	err := evt.Handler().Handle(evt)

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)

	if err != nil {
		return fmt.Errorf("handling %s @ %d: %w", reflect.TypeOf(evt), evt.Time(), err)
	}

	return nil
}

func (e *SerialEngine) noMoreEvent() bool {
	return e.queue.Len() == 0 && e.secondaryQueue.Len() == 0
}

func (e *SerialEngine) nextEvent() Event {
	if e.queue.Len() == 0 {
		return e.secondaryQueue.Pop()
	}

	if e.secondaryQueue.Len() == 0 {
		return e.queue.Pop()
	}

	primaryEvt := e.queue.Peek()
	secondaryEvt := e.secondaryQueue.Peek()

	if primaryEvt.Time() <= secondaryEvt.Time() {
		e.queue.Pop()
		return primaryEvt
	}

	e.secondaryQueue.Pop()

	return secondaryEvt
}

// Stop makes Run return after the current event.
func (e *SerialEngine) Stop() {
	e.stopRequested.Store(true)
}

// Pause prevents the SerialEngine to trigger more events.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the SerialEngine to trigger more events.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// Now returns the current time at which the engine is at.
// Specifically, the run time of the current event.
func (e *SerialEngine) Now() VTimeInTick {
	return e.readNow()
}

// Pending returns the number of events waiting in the queues.
func (e *SerialEngine) Pending() int {
	return e.queue.Len() + e.secondaryQueue.Len()
}
