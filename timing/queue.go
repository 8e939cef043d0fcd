package timing

import (
	"container/heap"
	"sync"
)

// queuedEvent pairs an event with its insertion order so that same-time
// events are handled first-in first-out.
type queuedEvent struct {
	evt Event
	seq uint64
}

type eventQueue struct {
	sync.Mutex
	events  eventHeap
	nextSeq uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.events = make([]queuedEvent, 0)
	heap.Init(&q.events)

	return q
}

func (q *eventQueue) Push(evt Event) {
	q.Lock()
	heap.Push(&q.events, queuedEvent{evt: evt, seq: q.nextSeq})
	q.nextSeq++
	q.Unlock()
}

func (q *eventQueue) Pop() Event {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return heap.Pop(&q.events).(queuedEvent).evt
}

func (q *eventQueue) Len() int {
	q.Lock()
	defer q.Unlock()

	return q.events.Len()
}

func (q *eventQueue) Peek() Event {
	q.Lock()
	defer q.Unlock()

	if q.events.Len() == 0 {
		return nil
	}

	return q.events[0].evt
}

type eventHeap []queuedEvent

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	ti, tj := h[i].evt.Time(), h[j].evt.Time()
	if ti != tj {
		return ti < tj
	}

	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(queuedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	evt := old[n-1]
	*h = old[0 : n-1]

	return evt
}
