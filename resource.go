package desim

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// Resource models a fixed-size pool of interchangeable, countable
// instances (machines, connections, tokens): Processes Take some number
// of them, hold them for a while, and Release them, queueing when the
// pool cannot satisfy a request immediately.
//
// Grounded on greensim's Resource (itself built on a Gate-guarded
// counter); this version tracks each holder's count in the Process's own
// Bag rather than a package-private map, per this package's data model,
// so the amount held is inspectable from the Process side too.
type Resource struct {
	name        string
	total       int
	free        int
	q           *Queue
	heldKey     string
	requiredKey string
}

// NewResource constructs a Resource with total interchangeable instances,
// all initially free. tokenFunc may be nil, giving FIFO queueing order
// among Processes waiting for instances to free up.
func NewResource(total int, tokenFunc GetOrderToken) *Resource {
	r := &Resource{
		total: total,
		free:  total,
		q:     NewQueue(tokenFunc),
	}
	r.heldKey = fmt.Sprintf("resource:%p:held", r)
	r.requiredKey = fmt.Sprintf("resource:%p:required", r)
	return r
}

// NumFree returns the number of currently-unheld instances.
func (r *Resource) NumFree() int { return r.free }

// NumTotal returns the Resource's total instance count.
func (r *Resource) NumTotal() int { return r.total }

// held returns the number of instances p currently holds of r.
func (r *Resource) held(p *Process) int {
	v, ok := p.Local().Get(r.heldKey)
	if !ok {
		return 0
	}
	return v.(int)
}

func (r *Resource) setHeld(p *Process, n int) {
	if n == 0 {
		p.Local().Delete(r.heldKey)
		return
	}
	p.Local().Set(r.heldKey, n)
}

// required returns the instance count p is currently queued for, i.e.
// the num it last passed to Take while still waiting on r's Queue, or 0
// if p is not (or no longer) queued for r.
func (r *Resource) required(p *Process) int {
	v, ok := p.Local().Get(r.requiredKey)
	if !ok {
		return 0
	}
	return v.(int)
}

func (r *Resource) setRequired(p *Process, n int) {
	if n == 0 {
		p.Local().Delete(r.requiredKey)
		return
	}
	p.Local().Set(r.requiredKey, n)
}

// Take suspends the calling Process until num instances are free, then
// holds them on its behalf. num must be between 1 and the Resource's
// total, inclusive, or Take returns ErrInvalidCount immediately without
// suspending. If timeout is provided (hasTimeout), Take instead returns a
// *Timeout once that many virtual-time units have elapsed while still
// waiting; no instances are held in that case.
func (r *Resource) Take(p *Process, num int, timeout float64, hasTimeout bool) error {
	if num < 1 || num > r.total {
		return ErrInvalidCount
	}
	deadline := p.sched.now + timeout
	for r.free < num {
		r.setRequired(p, num)
		err := r.q.Join(p, deadline-p.sched.now, hasTimeout)
		r.setRequired(p, 0)
		if err != nil {
			return err
		}
		// Woken: re-check free capacity, since another waiter released
		// in the meantime may not have freed enough for this request.
	}
	r.free -= num
	r.setHeld(p, r.held(p)+num)
	trace(logiface.LevelTrace, p.sched.now, p.name, "resource", r.name, "take", map[string]any{"count": num, "free": r.free})
	return nil
}

// Release gives back num instances previously Taken by p. It returns
// ErrReleaseWithoutHold if p holds none of this Resource at all, and
// ErrReleaseExceedsHolding if p holds fewer than num.
func (r *Resource) Release(p *Process, num int) error {
	holding := r.held(p)
	if holding == 0 {
		return ErrReleaseWithoutHold
	}
	if num > holding {
		return ErrReleaseExceedsHolding
	}
	r.setHeld(p, holding-num)
	r.free += num
	trace(logiface.LevelTrace, p.sched.now, p.name, "resource", r.name, "release", map[string]any{"count": num, "free": r.free})

	// avail counts the instances not yet promised to a waiter woken by
	// this call; woken waiters only take them once they run.
	avail := r.free
	for {
		head := r.q.Peek()
		if head == nil || avail < r.required(head) {
			// Either nobody is waiting, or the head doesn't yet have
			// enough free to proceed: FIFO head-of-line blocking means
			// nobody behind it can be woken either, so leave the queue
			// untouched.
			break
		}
		avail -= r.required(head)
		r.q.Pop()
		_ = head.Resume()
	}
	return nil
}

// Using Takes num instances, runs fn, and Releases them again
// afterwards, even if fn returns an error or an *Interrupt unwinds
// through it. It is the scoped-acquisition idiom this package offers in
// place of greensim's Python context-manager form.
func (r *Resource) Using(p *Process, num int, timeout float64, hasTimeout bool, fn func() error) error {
	if err := r.Take(p, num, timeout, hasTimeout); err != nil {
		return err
	}
	defer func() { _ = r.Release(p, num) }()
	return fn()
}
