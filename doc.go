// Package desim provides the core of a discrete-event simulation toolkit:
// an event-driven virtual-time scheduler that multiplexes many cooperative
// simulated processes on a single logical thread, plus the synchronization
// primitives those processes use to coordinate — ordered queues, on/off
// signals, and counted multi-instance resources.
//
// # Architecture
//
// A [Scheduler] owns a virtual clock and a min-heap of pending [Event]
// values. It repeatedly pops the Event with the smallest (timestamp,
// sequence) pair, advances its clock to that Event's timestamp, and runs
// it. Most Events are continuations of a [Process]: a goroutine running a
// body function of type [Body], synchronized with the Scheduler through
// three unbuffered channels (resume, yield, done) that hand a single
// logical token back and forth. Exactly one of the Scheduler's loop goroutine and one Process
// goroutine is ever runnable at a time, so the heap, the clock, and every
// waiting structure in this package require no locks.
//
// Processes suspend at well-defined points — [Process.Advance],
// [Process.Pause], [Queue.Join], [Signal.Wait], [Resource.Take], [Select]
// — and resume either because virtual time reached their continuation's
// timestamp, or because another Process (or outside code) explicitly
// called [Process.Resume] or [Process.Interrupt].
//
// # Time Semantics
//
// Virtual time never regresses. Events scheduled for the same timestamp
// fire in the order they were scheduled. "Now" inside a running Process
// is always the timestamp of the Event currently executing.
//
// # Error Handling
//
// Validation errors ([ErrInvalidDelay], [ErrTimeInPast], [ErrInvalidCount],
// [ErrReleaseExceedsHolding], [ErrReleaseWithoutHold], [ErrNotInProcess])
// surface synchronously to the caller. [Interrupt] and its [Timeout]
// specialization unwind a suspended Process's body; if a body returns one
// uncaught, that Process terminates cleanly without stopping the
// Scheduler. Any other non-nil error returned by a body is a bug: it
// escapes [Scheduler.Run] / [Scheduler.Step] to the outer caller, the
// Scheduler does not swallow it.
//
// # Usage
//
//	sched := desim.NewScheduler()
//	sched.Add(func(p *desim.Process) error {
//	    for i := 0; i < 3; i++ {
//	        fmt.Println(p.Now())
//	        if err := p.Advance(1.0); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
//	if err := sched.Run(math.Inf(1)); err != nil {
//	    log.Fatal(err)
//	}
package desim
