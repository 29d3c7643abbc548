package desim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/joeycumines/logiface"
)

// Scheduler owns virtual time, the pending-event heap, and the set of
// Processes running against it. Exactly one goroutine is ever "holding
// the token" at a time: either the goroutine that called Run/Step, or
// the goroutine of whichever Process is currently running. Control
// passes between them over unbuffered channels (see Process), so the
// Scheduler's own state - the heap, now, currentProcess - never needs a
// mutex.
type Scheduler struct {
	name    string
	now     float64
	h       eventHeap
	seq     uint64
	running bool
	stopped bool

	currentProcess *Process
	processes      []*Process

	metrics *Metrics
	bugErr  error
}

// NewScheduler constructs a Scheduler ready to have Processes added to
// it. Virtual time starts at 0.0 unless overridden with WithClock.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	cfg := resolveSchedulerOptions(opts)
	s := &Scheduler{
		name: cfg.name,
		now:  cfg.now,
	}
	if cfg.metricsEnabled {
		s.metrics = &Metrics{}
	}
	heap.Init(&s.h)
	return s
}

// Name returns the Scheduler's configured name, or "" if none was set.
func (s *Scheduler) Name() string { return s.name }

// Now returns the Scheduler's current virtual time.
func (s *Scheduler) Now() float64 { return s.now }

// Metrics returns the Scheduler's runtime counters, or nil if it was not
// constructed with WithMetrics(true).
func (s *Scheduler) Metrics() *Metrics { return s.metrics }

// CurrentProcess returns the Process currently executing against this
// Scheduler. It returns ErrNotInProcess when called outside of any
// Process's body (for instance, from the goroutine that called Run).
func (s *Scheduler) CurrentProcess() (*Process, error) {
	if s.currentProcess == nil {
		return nil, ErrNotInProcess
	}
	return s.currentProcess, nil
}

// Events returns a snapshot of the still-pending, uncancelled events, in
// no particular order. Intended for diagnostics and tests, not for
// scheduling decisions.
func (s *Scheduler) Events() []Event {
	out := make([]Event, 0, len(s.h))
	for _, e := range s.h {
		if !e.cancelled {
			out = append(out, *e)
		}
	}
	return out
}

// schedule validates and schedules fn to run delay virtual-time units
// from now.
func (s *Scheduler) schedule(delay float64, fn func()) (*Event, error) {
	if delay < 0 || math.IsNaN(delay) {
		return nil, ErrInvalidDelay
	}
	return s.pushEvent(s.now+delay, fn), nil
}

// scheduleAtMoment validates and schedules fn to run at the given
// absolute virtual-time moment, which must not precede now.
func (s *Scheduler) scheduleAtMoment(moment float64, fn func()) (*Event, error) {
	if moment < s.now {
		return nil, ErrTimeInPast
	}
	return s.pushEvent(moment, fn), nil
}

func (s *Scheduler) pushEvent(timestamp float64, fn func()) *Event {
	s.seq++
	e := &Event{Timestamp: timestamp, Seq: s.seq, fn: fn}
	heap.Push(&s.h, e)
	if s.metrics != nil {
		s.metrics.recordHeapLen(s.h.Len())
	}
	return e
}

// cancelEvent lazily cancels e: it is left in the heap and skipped when
// eventually popped, rather than removed immediately.
func (s *Scheduler) cancelEvent(e *Event) {
	if e == nil || e.cancelled {
		return
	}
	e.cancelled = true
	if s.metrics != nil {
		s.metrics.recordEventCancelled()
	}
}

// newProcess builds and registers a Process with the given final TagSet,
// without scheduling its first continuation; callers do that themselves
// once they've validated any requested delay or moment.
func (s *Scheduler) newProcess(body Body, tags TagSet) *Process {
	p := &Process{
		sched:    s,
		body:     body,
		local:    NewBag(),
		tags:     tags,
		state:    StateInitial,
		resumeCh: make(chan error),
		yieldCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	p.name = fmt.Sprintf("process-%d", len(s.processes)+1)
	s.processes = append(s.processes, p)
	if s.metrics != nil {
		s.metrics.recordProcessCreated()
	}
	return p
}

// addProcess is the common construction path behind Scheduler.Add and
// Process.Add; parentTags is unioned with any tags declared via
// WithTags to produce the spawned Process's final TagSet.
func (s *Scheduler) addProcess(body Body, parentTags TagSet, opts []ProcessOption) *Process {
	cfg := resolveProcessOptions(opts)
	p := s.newProcess(body, parentTags.Union(NewTagSet(cfg.tags...)))
	e, _ := s.schedule(0, func() { s.resumeProcess(p, nil) })
	p.pendingEvent = e
	trace(logiface.LevelDebug, s.now, p.name, "process", p.name, "spawn", nil)
	return p
}

// Add spawns a new Process whose body begins running on the next event
// (virtual time does not advance for the spawn itself).
func (s *Scheduler) Add(body Body, opts ...ProcessOption) *Process {
	return s.addProcess(body, nil, opts)
}

// AddIn spawns a new Process whose body begins running delay virtual-time
// units from now.
func (s *Scheduler) AddIn(delay float64, body Body, opts ...ProcessOption) (*Process, error) {
	if delay < 0 || math.IsNaN(delay) {
		return nil, ErrInvalidDelay
	}
	if delay == 0 {
		return s.Add(body, opts...), nil
	}
	cfg := resolveProcessOptions(opts)
	p := s.newDeferredProcess(cfg, body)
	e, err := s.schedule(delay, func() { s.resumeProcess(p, nil) })
	if err != nil {
		return nil, err
	}
	p.pendingEvent = e
	return p, nil
}

// AddAt spawns a new Process whose body begins running at the given
// absolute virtual-time moment, which must not precede now.
func (s *Scheduler) AddAt(moment float64, body Body, opts ...ProcessOption) (*Process, error) {
	if moment < s.now {
		return nil, ErrTimeInPast
	}
	cfg := resolveProcessOptions(opts)
	p := s.newDeferredProcess(cfg, body)
	e, err := s.scheduleAtMoment(moment, func() { s.resumeProcess(p, nil) })
	if err != nil {
		return nil, err
	}
	p.pendingEvent = e
	return p, nil
}

// newDeferredProcess builds and registers a Process, without yet
// scheduling its first continuation; callers schedule that themselves
// once they've validated the requested delay or moment.
func (s *Scheduler) newDeferredProcess(cfg *processOptions, body Body) *Process {
	return s.newProcess(body, NewTagSet(cfg.tags...))
}

// resumeProcess hands the token to p, waits for it to either suspend
// again or terminate, and records the outcome. It must only be called
// while the Scheduler itself holds the token (i.e. from within
// Run/Step's own goroutine).
func (s *Scheduler) resumeProcess(p *Process, resumeErr error) {
	p.pendingEvent = nil
	prev := s.currentProcess
	s.currentProcess = p
	if p.body == nil {
		// AddAt/AddIn deferred bodies are assigned before the first
		// resume; a nil body here means the caller never finished
		// construction, which is a programming error in this package.
		panic("desim: process resumed with nil body")
	}
	if p.goroutineStarted {
		p.resumeCh <- resumeErr
	} else {
		p.goroutineStarted = true
		go p.loop()
		p.resumeCh <- resumeErr
	}
	select {
	case <-p.yieldCh:
	case <-p.doneCh:
		if s.metrics != nil {
			s.metrics.recordProcessTerminated()
		}
		if isUncaughtBug(p.terminalErr) {
			s.bugErr = p.terminalErr
		}
	}
	s.currentProcess = prev
}

// runEvent executes a single popped, uncancelled event and returns any
// bug error that surfaced while running it.
func (s *Scheduler) runEvent(e *Event) error {
	s.bugErr = nil
	e.fn()
	if s.metrics != nil {
		s.metrics.recordEventExecuted()
	}
	return s.bugErr
}

func (s *Scheduler) popNextReady() *Event {
	for s.h.Len() > 0 {
		top := s.h[0]
		if top.cancelled {
			heap.Pop(&s.h)
			continue
		}
		return heap.Pop(&s.h).(*Event)
	}
	return nil
}

// Step executes exactly one pending event, advancing virtual time to its
// timestamp, and returns any bug error a Process body raised while
// running. It is a no-op returning nil if no events are pending.
func (s *Scheduler) Step() error {
	e := s.popNextReady()
	if e == nil {
		return nil
	}
	s.now = e.Timestamp
	return s.runEvent(e)
}

// Run drives the Scheduler until either no events remain pending or
// duration virtual-time units have elapsed, whichever comes first. Pass
// math.Inf(1) to run until the event heap drains completely. If a
// Process body returns an error that is not an *Interrupt (or *Timeout),
// Run stops immediately and returns that error.
func (s *Scheduler) Run(duration float64) error {
	if duration < 0 || math.IsNaN(duration) {
		return ErrInvalidDelay
	}
	var deadline float64
	hasDeadline := !math.IsInf(duration, 1)
	if hasDeadline {
		deadline = s.now + duration
	}
	s.running = true
	s.stopped = false
	defer func() { s.running = false }()
	for {
		if s.stopped {
			break
		}
		if s.h.Len() == 0 {
			break
		}
		if hasDeadline && s.h[0].Timestamp > deadline {
			break
		}
		e := s.popNextReady()
		if e == nil {
			break
		}
		if hasDeadline && e.Timestamp > deadline {
			// Lost the race against a cancellation check above; put
			// virtual time at the deadline and stop without running it,
			// leaving it pending for a later Run or Step.
			s.now = deadline
			heap.Push(&s.h, e)
			break
		}
		s.now = e.Timestamp
		if err := s.runEvent(e); err != nil {
			return err
		}
	}
	if hasDeadline && s.now < deadline {
		s.now = deadline
	}
	return nil
}

// Stop halts a Run currently in progress before its next event would
// otherwise execute. It has no effect outside of Run.
func (s *Scheduler) Stop() {
	s.stopped = true
}

// Shutdown forcibly terminates every Process still suspended, delivering
// each an *Interrupt wrapping ErrSchedulerTerminated, and cancels any
// remaining pending events. Intended for cleanup after Run returns with
// an error, or when abandoning a Scheduler early; it is safe to call
// Shutdown even if every Process has already terminated normally.
func (s *Scheduler) Shutdown() {
	for s.h.Len() > 0 {
		e := heap.Pop(&s.h).(*Event)
		s.cancelEvent(e)
	}
	for _, p := range s.processes {
		if p.state != StateSuspended {
			continue
		}
		if p.pendingEvent != nil {
			s.cancelEvent(p.pendingEvent)
		}
		s.resumeProcess(p, &Interrupt{Reason: ErrSchedulerTerminated})
	}
}
