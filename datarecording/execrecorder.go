package datarecording

import (
	"os"
	"strings"
	"time"
)

// ExecInfo is one property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

const timeFormat = "2006-01-02 15:04:05.000000000"

// ExecRecorder records when and how the program was run.
type ExecRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	e := &ExecRecorder{
		tableName: "exec_info",
		recorder:  recorder,
	}

	recorder.CreateTable(e.tableName, ExecInfo{})

	return e
}

// Start captures the start time, the command line and the working
// directory.
func (e *ExecRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", time.Now().Format(timeFormat)},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	if wd, err := os.Getwd(); err == nil {
		e.entries = append(e.entries, ExecInfo{"Working Directory", wd})
	}
}

// Add records an extra property, such as a machine parameter.
func (e *ExecRecorder) Add(property, value string) {
	e.entries = append(e.entries, ExecInfo{property, value})
}

// End writes all the properties along with the end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(e.tableName, entry)
	}

	e.recorder.InsertData(e.tableName,
		ExecInfo{"End Time", time.Now().Format(timeFormat)})

	e.entries = nil

	e.recorder.Flush()
}
