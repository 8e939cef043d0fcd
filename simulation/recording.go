package simulation

import (
	"sort"

	"github.com/sarchlab/roisim/stats"
)

// StatRecord is one row of the stats table.
type StatRecord struct {
	Path  string
	Value float64
}

// Tables that an engine with a recorder writes after every run.
const (
	StatsTable = "stats"
	ExitTable  = "exit_events"
)

func (e *Engine) record(result stats.RunResult, exits []ExitRecord) {
	if e.recorder == nil {
		return
	}

	if !e.tablesCreated {
		e.recorder.CreateTable(StatsTable, StatRecord{})
		e.recorder.CreateTable(ExitTable, ExitRecord{})
		e.tablesCreated = true
	}

	flat := result.Stats.Flatten()

	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	for _, p := range paths {
		e.recorder.InsertData(StatsTable, StatRecord{Path: p, Value: flat[p]})
	}

	for _, r := range exits {
		e.recorder.InsertData(ExitTable, r)
	}

	e.recorder.Flush()
}
