// Package stats turns the statistics of a finished run into the console
// summary.
package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrMissingStatistic is returned when a statistic is absent from a
	// snapshot or is not a number.
	ErrMissingStatistic = errors.New("stats: missing statistic")

	// ErrInvalidTimeRange is returned when a run ends before it begins.
	ErrInvalidTimeRange = errors.New("stats: invalid time range")
)

// Statistic paths exposed by the engine.
const (
	PathInOrderExecuted     = "board.processor.cores.core.exec_context.thread_0.numInsts"
	PathOutOfOrderCommitted = "board.processor.cores.core.committedInsts.0"
	PathOutOfOrderExecuted  = "board.processor.cores.core.numInsts"
	PathCycles              = "board.processor.cores.core.numCycles"
)

// Split breaks a dotted statistic path into its segments.
func Split(path string) []string {
	return strings.Split(path, ".")
}

// Snapshot is a hierarchical view of statistics. Inner nodes are Snapshots
// (or map[string]any) and leaves are numbers.
type Snapshot map[string]any

// Lookup follows the path from the root and returns the numeric leaf.
func (s Snapshot) Lookup(path ...string) (float64, error) {
	if len(path) == 0 {
		return 0, fmt.Errorf("%w: empty path", ErrMissingStatistic)
	}

	var node any = s
	for i, segment := range path {
		children, ok := asMap(node)
		if !ok {
			return 0, fmt.Errorf("%w: %s is not a group",
				ErrMissingStatistic, strings.Join(path[:i], "."))
		}

		node, ok = children[segment]
		if !ok {
			return 0, fmt.Errorf("%w: %s",
				ErrMissingStatistic, strings.Join(path[:i+1], "."))
		}
	}

	v, ok := asNumber(node)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number",
			ErrMissingStatistic, strings.Join(path, "."))
	}

	return v, nil
}

// LookupPath is Lookup with a dotted path. A group key may itself contain
// dots, as in "exec_context.thread_0", so when the plain split fails the
// segments are also matched against joined keys.
func (s Snapshot) LookupPath(path string) (float64, error) {
	segments := Split(path)

	v, err := s.Lookup(segments...)
	if err == nil {
		return v, nil
	}

	if node, ok := lookupJoined(s, segments); ok {
		if v, ok := asNumber(node); ok {
			return v, nil
		}
	}

	return 0, err
}

func lookupJoined(node any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return node, true
	}

	children, ok := asMap(node)
	if !ok {
		return nil, false
	}

	for n := 1; n <= len(segments); n++ {
		child, ok := children[strings.Join(segments[:n], ".")]
		if !ok {
			continue
		}

		if leaf, ok := lookupJoined(child, segments[n:]); ok {
			return leaf, true
		}
	}

	return nil, false
}

// Flatten returns every numeric leaf keyed by its dotted path.
func (s Snapshot) Flatten() map[string]float64 {
	out := make(map[string]float64)
	flatten("", s, out)

	return out
}

// Paths returns the dotted paths of every numeric leaf in sorted order.
func (s Snapshot) Paths() []string {
	flat := s.Flatten()

	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

func flatten(prefix string, node any, out map[string]float64) {
	if v, ok := asNumber(node); ok {
		out[prefix] = v
		return
	}

	children, ok := asMap(node)
	if !ok {
		return
	}

	for k, child := range children {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}

		flatten(p, child, out)
	}
}

func asMap(node any) (map[string]any, bool) {
	switch n := node.(type) {
	case Snapshot:
		return n, true
	case map[string]any:
		return n, true
	default:
		return nil, false
	}
}

func asNumber(node any) (float64, bool) {
	switch n := node.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
