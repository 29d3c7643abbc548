package desim

import (
	"fmt"

	"github.com/joeycumines/logiface"
)

// Body is the function run by a Process. It receives the Process itself,
// which is the sole handle it needs to observe virtual time, suspend
// itself, and spawn children. A Body that returns nil, an *Interrupt, or
// a *Timeout terminates its Process cleanly. Any other non-nil error is
// treated as a defect and surfaces from the owning Scheduler's Run/Step.
type Body func(p *Process) error

// Process is a single cooperative thread of simulated activity: one
// goroutine, handed the scheduling token for exactly as long as it takes
// to run until its next suspension point (Advance, Pause, or any
// blocking call on a Queue, Signal, or Resource), then handing it back.
//
// This mirrors greensim's greenlet-per-process model: there, every
// Process is a greenlet cooperatively switched to and from; here, it is
// a goroutine, and the switch is an unbuffered channel handoff instead
// of a greenlet.switch() call. Exactly one Process goroutine (or the
// Scheduler's own calling goroutine) ever runs at a time, so Process and
// Scheduler state need no locking.
type Process struct {
	sched *Scheduler
	body  Body
	local *Bag
	tags  TagSet
	name  string
	state ProcessState

	resumeCh chan error
	yieldCh  chan struct{}
	doneCh   chan struct{}

	goroutineStarted bool
	pendingEvent     *Event
	terminalErr      error
}

// Now returns the owning Scheduler's current virtual time.
func (p *Process) Now() float64 { return p.sched.now }

// Local returns this Process's attribute Bag.
func (p *Process) Local() *Bag { return p.local }

// Tags returns this Process's TagSet.
func (p *Process) Tags() TagSet { return p.tags }

// Name returns this Process's display name.
func (p *Process) Name() string { return p.name }

// SetName changes this Process's display name, used in structured log
// records from this point on.
func (p *Process) SetName(name string) {
	old := p.name
	p.name = name
	trace(logiface.LevelDebug, p.sched.now, name, "process", name, "rename", map[string]any{"previous": old})
}

// State returns this Process's current lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Scheduler returns the Scheduler this Process runs against.
func (p *Process) Scheduler() *Scheduler { return p.sched }

// Add spawns a child Process whose tags default to the union of this
// Process's own tags and any declared via WithTags.
func (p *Process) Add(body Body, opts ...ProcessOption) *Process {
	return p.sched.addProcess(body, p.tags, opts)
}

// AddIn spawns a child Process delay virtual-time units from now.
func (p *Process) AddIn(delay float64, body Body, opts ...ProcessOption) (*Process, error) {
	return p.sched.AddIn(delay, body, withParentTags(p.tags, opts)...)
}

// AddAt spawns a child Process at the given absolute virtual-time moment.
func (p *Process) AddAt(moment float64, body Body, opts ...ProcessOption) (*Process, error) {
	return p.sched.AddAt(moment, body, withParentTags(p.tags, opts)...)
}

func withParentTags(parent TagSet, opts []ProcessOption) []ProcessOption {
	if len(parent) == 0 {
		return opts
	}
	tags := make([]Tag, 0, len(parent))
	for t := range parent {
		tags = append(tags, t)
	}
	out := make([]ProcessOption, 0, len(opts)+1)
	out = append(out, WithTags(tags...))
	out = append(out, opts...)
	return out
}

// Advance suspends the Process for delay virtual-time units, resuming it
// once the Scheduler's clock reaches now+delay. It returns an error only
// if delay is negative, or if the Process was interrupted while waiting
// (in which case the error is an *Interrupt).
func (p *Process) Advance(delay float64) error {
	if delay < 0 {
		return ErrInvalidDelay
	}
	e, err := p.sched.schedule(delay, func() { p.sched.resumeProcess(p, nil) })
	if err != nil {
		return err
	}
	p.pendingEvent = e
	trace(logiface.LevelTrace, p.sched.now, p.name, "process", p.name, "advance", map[string]any{"delay": delay})
	return p.suspend()
}

// Pause suspends the Process indefinitely: unlike Advance, no
// continuation is scheduled, so the Process only resumes when another
// Process calls Resume or Interrupt on it.
func (p *Process) Pause() error {
	p.pendingEvent = nil
	trace(logiface.LevelTrace, p.sched.now, p.name, "process", p.name, "pause", nil)
	return p.suspend()
}

// Resume cancels any continuation already scheduled for this suspended
// Process (an Advance delay, or a Queue/Signal/Resource wait timeout)
// and instead wakes it immediately with a nil error. It returns
// ErrProcessNotSuspended if the Process is not currently suspended.
func (p *Process) Resume() error {
	if p.state != StateSuspended {
		return ErrProcessNotSuspended
	}
	if p.pendingEvent != nil {
		p.sched.cancelEvent(p.pendingEvent)
		p.pendingEvent = nil
	}
	e, err := p.sched.scheduleAtMoment(p.sched.now, func() { p.sched.resumeProcess(p, nil) })
	if err != nil {
		return err
	}
	p.pendingEvent = e
	return nil
}

// Interrupt cancels any continuation already scheduled for this
// suspended Process and instead wakes it immediately with an *Interrupt
// wrapping reason. It returns ErrProcessNotSuspended if the Process is
// not currently suspended.
func (p *Process) Interrupt(reason error) error {
	if p.state != StateSuspended {
		return ErrProcessNotSuspended
	}
	if p.pendingEvent != nil {
		p.sched.cancelEvent(p.pendingEvent)
		p.pendingEvent = nil
	}
	e, err := p.sched.scheduleAtMoment(p.sched.now, func() {
		p.sched.resumeProcess(p, &Interrupt{Reason: reason})
	})
	if err != nil {
		return err
	}
	p.pendingEvent = e
	trace(logiface.LevelDebug, p.sched.now, p.name, "process", p.name, "interrupt", map[string]any{"reason": reason})
	return nil
}

// Stop stops the owning Scheduler: the Event currently running this
// Process's continuation completes, then Run observes the stop and
// returns without executing any further pending Event. It has no effect
// outside of Run, and does not itself terminate any Process, including
// this one.
func (p *Process) Stop() {
	p.sched.Stop()
}

// Terminate forcibly tears this Process down, delivering it an
// *Interrupt wrapping ErrSchedulerTerminated. Unlike Stop, it leaves the
// owning Scheduler running and every other Process untouched.
func (p *Process) Terminate() error {
	return p.Interrupt(ErrSchedulerTerminated)
}

// suspend hands the token back to the Scheduler and blocks until this
// Process is resumed, returning whatever error the resumer supplied (nil
// on ordinary resumption, an *Interrupt or *Timeout otherwise).
func (p *Process) suspend() error {
	p.state = StateSuspended
	p.yieldCh <- struct{}{}
	err := <-p.resumeCh
	p.state = StateRunning
	return err
}

// loop is the Process's goroutine body: it waits to be started, runs the
// user-supplied Body to completion (recovering any panic as a terminal
// error so it can be inspected the same way as a returned error), and
// signals completion.
func (p *Process) loop() {
	<-p.resumeCh
	p.state = StateRunning
	trace(logiface.LevelDebug, p.sched.now, p.name, "process", p.name, "start", nil)

	bodyErr := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = e
				} else {
					err = fmt.Errorf("desim: process %q panicked: %v", p.name, r)
				}
			}
		}()
		return p.body(p)
	}()

	p.terminalErr = bodyErr
	p.state = StateTerminated
	trace(logiface.LevelDebug, p.sched.now, p.name, "process", p.name, "terminate", map[string]any{"error": bodyErr})
	p.doneCh <- struct{}{}
}
