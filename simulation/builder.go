package simulation

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/roisim/datarecording"
	"github.com/sarchlab/roisim/monitoring"
)

// Builder can be used to build a simulation engine.
type Builder struct {
	monitor     *monitoring.Monitor
	recorder    datarecording.DataRecorder
	eventLogger *logrus.Logger
}

// MakeBuilder creates a new builder without monitoring or recording.
func MakeBuilder() Builder {
	return Builder{}
}

// WithMonitor registers the engine and its statistics with the monitor.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

// WithRecorder makes the engine write the statistics and the exit events of
// every run into the recorder.
func (b Builder) WithRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithEventLogger traces every event into the logger.
func (b Builder) WithEventLogger(logger *logrus.Logger) Builder {
	b.eventLogger = logger
	return b
}

// Build builds the engine.
func (b Builder) Build() *Engine {
	e := &Engine{
		monitor:     b.monitor,
		recorder:    b.recorder,
		eventLogger: b.eventLogger,
	}

	if b.monitor != nil {
		b.monitor.RegisterEngine(e)
		b.monitor.RegisterStats(e)
	}

	return e
}
