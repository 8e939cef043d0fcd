package timing

import (
	"reflect"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/roisim/hooking"
)

// EventLogger is an hook that prints the event information
type EventLogger struct {
	logger *logrus.Logger
}

// NewEventLogger returns a new EventLogger which will write in to the logger
// at trace level.
func NewEventLogger(logger *logrus.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

type named interface {
	Name() string
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	handlerName := reflect.TypeOf(evt.Handler()).String()
	if n, ok := evt.Handler().(named); ok {
		handlerName = n.Name()
	}

	h.logger.Tracef("%d, %s -> %s", evt.Time(), reflect.TypeOf(evt), handlerName)
}
