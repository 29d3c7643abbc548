package desim

import (
	"container/heap"

	"github.com/joeycumines/logiface"
)

// GetOrderToken computes the priority token for the counter-th Process to
// join a Queue (0-indexed). Lower tokens are released first; ties are
// broken by join order. The default, used when NewQueue is given no
// token function, returns the counter itself, giving plain FIFO order.
type GetOrderToken func(counter uint64) int

func defaultOrderToken(counter uint64) int { return int(counter) }

// queueEntry is one waiting Process, tracked by index in the Queue's
// backing heap. Pop is O(log n); removing a timed-out or interrupted
// entry first finds it with a linear scan, so that is O(n).
type queueEntry struct {
	token int
	seq   uint64
	proc  *Process
	index int
}

type queueHeap []*queueEntry

func (h queueHeap) Len() int { return len(h) }
func (h queueHeap) Less(i, j int) bool {
	if h[i].token != h[j].token {
		return h[i].token < h[j].token
	}
	return h[i].seq < h[j].seq
}
func (h queueHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *queueHeap) Push(x any) {
	e := x.(*queueEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *queueHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Queue is a priority wait-line: Processes Join it and are released, in
// priority order, only as something else chooses to Pop them. A Queue on
// its own does no releasing; it is the building block Resource and
// Signal both use to decide who runs next.
//
// Grounded on greensim's Queue/PriorityQueue (a heap of waiting greenlets
// keyed by an order token), generalized here to an explicit GetOrderToken
// function rather than a hard-coded FIFO counter.
type Queue struct {
	name      string
	h         queueHeap
	counter   uint64
	tokenFunc GetOrderToken
}

// NewQueue constructs an empty Queue. tokenFunc may be nil, giving plain
// FIFO order.
func NewQueue(tokenFunc GetOrderToken) *Queue {
	if tokenFunc == nil {
		tokenFunc = defaultOrderToken
	}
	q := &Queue{tokenFunc: tokenFunc}
	heap.Init(&q.h)
	return q
}

// Len returns the number of Processes currently waiting.
func (q *Queue) Len() int { return q.h.Len() }

// IsEmpty reports whether no Process is currently waiting.
func (q *Queue) IsEmpty() bool { return q.h.Len() == 0 }

// Peek returns the Process that would be released next, without
// releasing it, or nil if the Queue is empty.
func (q *Queue) Peek() *Process {
	if q.h.Len() == 0 {
		return nil
	}
	return q.h[0].proc
}

// Pop releases and returns the highest-priority waiting Process, or nil
// if the Queue is empty. The released Process is left suspended; it is
// the caller's responsibility to resume it (typically via Process.Resume
// or by scheduling a continuation directly).
func (q *Queue) Pop() *Process {
	if q.h.Len() == 0 {
		return nil
	}
	e := heap.Pop(&q.h).(*queueEntry)
	return e.proc
}

// remove removes p's entry from the queue, if present, without returning
// it. Used when a Join times out or is interrupted before being Popped.
func (q *Queue) remove(p *Process) {
	for i, e := range q.h {
		if e.proc == p {
			heap.Remove(&q.h, i)
			return
		}
	}
}

// Join suspends the calling Process until it is released by a Pop call
// from elsewhere (typically driven by a Resource or Signal built on this
// Queue). If timeout is provided (hasTimeout), Join instead returns a
// *Timeout once that many virtual-time units have elapsed while still
// waiting.
func (q *Queue) Join(p *Process, timeout float64, hasTimeout bool) error {
	entry := &queueEntry{token: q.tokenFunc(q.counter), seq: q.counter, proc: p}
	q.counter++
	heap.Push(&q.h, entry)
	trace(logiface.LevelTrace, p.sched.now, p.name, "queue", q.name, "join", map[string]any{"token": entry.token})

	var timeoutEvent *Event
	if hasTimeout {
		var err error
		timeoutEvent, err = p.sched.schedule(timeout, func() {
			q.remove(p)
			p.sched.resumeProcess(p, NewTimeout(nil))
		})
		if err != nil {
			q.remove(p)
			return err
		}
		p.pendingEvent = timeoutEvent
	} else {
		p.pendingEvent = nil
	}

	resErr := p.suspend()
	if timeoutEvent != nil {
		p.sched.cancelEvent(timeoutEvent)
	}
	// A normal release (Pop) or a fired timeout already removed this
	// entry from the heap; an Interrupt delivered while still waiting
	// did not, so defensively remove it here too. Safe no-op otherwise.
	q.remove(p)
	return resErr
}
