package desim

import "github.com/joeycumines/logiface"

// Signal is a level-triggered gate: Processes Wait on it, and are
// released in priority order when it is turned on. Unlike a one-shot
// event, a Signal that is already on releases a waiting Process
// immediately; one that is off queues the Process until TurnOn is next
// called.
//
// Grounded on greensim's Gate, generalized per this package's data model
// into a standalone primitive (rather than a Resource-internal detail)
// backed by the same Queue used elsewhere.
type Signal struct {
	name string
	on   bool
	q    *Queue
}

// NewSignal constructs a Signal in the off state.
func NewSignal() *Signal {
	return &Signal{q: NewQueue(nil)}
}

// IsOn reports whether the Signal is currently on.
func (s *Signal) IsOn() bool { return s.on }

// TurnOn sets the Signal on and releases every currently-waiting Process,
// in priority order. While the Signal stays on, later Wait calls return
// immediately without queueing.
//
// Every waiting Process is popped and scheduled to resume at the current
// virtual time; none of them runs before TurnOn returns. A released
// Process that finds the Signal off again when it does run (because
// TurnOff was called in between, by the caller or by an earlier released
// Process) goes back into the queue instead of returning from Wait.
func (s *Signal) TurnOn() {
	s.on = true
	for !s.q.IsEmpty() {
		if !s.on {
			break
		}
		p := s.q.Pop()
		if p == nil {
			break
		}
		_ = p.Resume()
	}
}

// TurnOff sets the Signal off. Processes already waiting remain waiting;
// it has no effect on anyone not currently waiting.
func (s *Signal) TurnOff() {
	s.on = false
}

// Wait suspends the calling Process until the Signal is on: immediately,
// if it already is; otherwise once some future TurnOn call reaches it. If
// timeout is provided (hasTimeout), Wait instead returns a *Timeout once
// that many virtual-time units have elapsed while still waiting.
func (s *Signal) Wait(p *Process, timeout float64, hasTimeout bool) error {
	if s.on {
		trace(logiface.LevelTrace, p.sched.now, p.name, "signal", s.name, "wait-immediate", nil)
		return nil
	}
	deadline := p.sched.now + timeout
	for !s.on {
		trace(logiface.LevelTrace, p.sched.now, p.name, "signal", s.name, "wait", nil)
		if err := s.q.Join(p, deadline-p.sched.now, hasTimeout); err != nil {
			return err
		}
	}
	return nil
}
