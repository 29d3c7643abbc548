package desim

import "container/heap"

// Event is a single scheduled continuation: a point in virtual time at
// which some function runs. Events are ordered first by Timestamp, then
// by Seq, giving a total, deterministic order across events scheduled
// for the exact same instant (earlier schedule calls run first).
type Event struct {
	Timestamp float64
	Seq       uint64

	fn        func()
	cancelled bool
	// index is the Event's position in the owning eventHeap's backing
	// slice, maintained by heap.Interface's Swap so removeEvent can
	// remove an arbitrary Event in O(log n) instead of O(n).
	index int
}

// Cancelled reports whether this Event has been cancelled. A cancelled
// Event is skipped when popped rather than executed.
func (e *Event) Cancelled() bool {
	return e.cancelled
}

// eventHeap is a (timestamp, seq)-ordered min-heap of *Event, implementing
// container/heap.Interface. Index tracking on each Event lets callers
// remove arbitrary entries (lazy cancellation) without a linear scan.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Timestamp != h[j].Timestamp {
		return h[i].Timestamp < h[j].Timestamp
	}
	return h[i].Seq < h[j].Seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	e := x.(*Event)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// removeEvent removes e from h in O(log n), provided e is still present
// (e.index >= 0 and h[e.index] == e). Used for eager cleanup; lazy
// cancellation (marking e.cancelled and leaving it in the heap to be
// skipped on pop) is the path Scheduler.cancelEvent uses instead.
func removeEvent(h *eventHeap, e *Event) {
	if e.index < 0 || e.index >= len(*h) || (*h)[e.index] != e {
		return
	}
	heap.Remove(h, e.index)
}
