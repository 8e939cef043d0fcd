package stats

import (
	"sort"
	"strings"
	"sync"
)

// Counter is a monotonically increasing statistic.
type Counter struct {
	lock  sync.Mutex
	value float64
}

// Add increases the counter.
func (c *Counter) Add(delta float64) {
	c.lock.Lock()
	c.value += delta
	c.lock.Unlock()
}

// Inc increases the counter by one.
func (c *Counter) Inc() {
	c.Add(1)
}

// Value returns the current count.
func (c *Counter) Value() float64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.value
}

func (c *Counter) reset() {
	c.lock.Lock()
	c.value = 0
	c.lock.Unlock()
}

// Registry owns the counters of one simulation.
type Registry struct {
	lock     sync.RWMutex
	counters map[string]*Counter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*Counter),
	}
}

// Counter returns the counter at the path, creating it on first use. A path
// cannot be both a counter and a group of counters.
func (r *Registry) Counter(path ...string) *Counter {
	key := strings.Join(path, ".")

	r.lock.Lock()
	defer r.lock.Unlock()

	if c, ok := r.counters[key]; ok {
		return c
	}

	for existing := range r.counters {
		if strings.HasPrefix(existing, key+".") ||
			strings.HasPrefix(key, existing+".") {
			panic("stats path " + key + " conflicts with " + existing)
		}
	}

	c := &Counter{}
	r.counters[key] = c

	return c
}

// Reset zeroes every counter.
func (r *Registry) Reset() {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, c := range r.counters {
		c.reset()
	}
}

// Paths lists the registered counter paths in sorted order.
func (r *Registry) Paths() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()

	paths := make([]string, 0, len(r.counters))
	for p := range r.counters {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// Snapshot copies the current values into a hierarchical Snapshot.
func (r *Registry) Snapshot() Snapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()

	root := Snapshot{}
	for key, c := range r.counters {
		segments := Split(key)

		node := root
		for _, s := range segments[:len(segments)-1] {
			child, ok := node[s].(Snapshot)
			if !ok {
				child = Snapshot{}
				node[s] = child
			}

			node = child
		}

		node[segments[len(segments)-1]] = c.Value()
	}

	return root
}
