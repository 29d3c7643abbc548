// errors.go - error types with cause-chain support, following the same
// Unwrap-based composition the rest of the standard library uses.

package desim

import (
	"errors"
	"fmt"
)

// Validation errors. These surface synchronously to the caller that
// violated a precondition; they are never delivered to a Process body as
// an Interrupt.
var (
	// ErrInvalidDelay is returned when a schedule or Advance call is given
	// a negative delay.
	ErrInvalidDelay = errors.New("desim: delay must be non-negative")

	// ErrTimeInPast is returned by AddAt when the requested moment is
	// before the Scheduler's current virtual time.
	ErrTimeInPast = errors.New("desim: moment is in the past")

	// ErrInvalidCount is returned by Resource.Take when the requested
	// instance count is outside [1, total].
	ErrInvalidCount = errors.New("desim: invalid instance count")

	// ErrReleaseExceedsHolding is returned by Resource.Release when the
	// releasing Process attempts to release more instances than it holds.
	ErrReleaseExceedsHolding = errors.New("desim: release exceeds holding")

	// ErrReleaseWithoutHold is returned by Resource.Release when the
	// calling Process holds no instances of the resource at all.
	ErrReleaseWithoutHold = errors.New("desim: release without a hold")

	// ErrNotInProcess is returned by operations that require a current
	// Process (such as Scheduler.CurrentProcess) when none is running.
	ErrNotInProcess = errors.New("desim: not running inside a process")

	// ErrSchedulerTerminated is the Reason of the *Interrupt that
	// Scheduler.Shutdown and Process.Terminate deliver to a suspended
	// Process. A Scheduler keeps accepting new work after Shutdown; no
	// call returns this error for that.
	ErrSchedulerTerminated = errors.New("desim: scheduler has been shut down")

	// ErrProcessNotSuspended is returned by Process.Interrupt and
	// Process.Resume when the target Process is not currently suspended
	// (it may be running, not yet started, or already terminated).
	ErrProcessNotSuspended = errors.New("desim: process is not suspended")
)

// Interrupt is delivered to a suspended Process in place of the ordinary
// nil error a suspension point (Advance, Pause, Queue.Join, Signal.Wait,
// Resource.Take, Select) returns on normal resumption. It is a signaling
// condition, not a bug: a Process body that returns an *Interrupt (or a
// *Timeout, see below) unwound from one of these calls terminates
// cleanly, without stopping the owning Scheduler or escaping Run/Step.
type Interrupt struct {
	// Reason is an optional, caller-supplied value describing why the
	// Process was interrupted. It may be nil.
	Reason error
}

// Error implements error.
func (e *Interrupt) Error() string {
	if e.Reason == nil {
		return "desim: process interrupted"
	}
	return fmt.Sprintf("desim: process interrupted: %v", e.Reason)
}

// Unwrap returns the wrapped reason, for use with errors.Is and errors.As.
func (e *Interrupt) Unwrap() error {
	return e.Reason
}

// Timeout is the specialization of Interrupt raised by Queue.Join,
// Signal.Wait, Resource.Take, and Select when their timeout elapses
// before the operation completes.
type Timeout struct {
	Interrupt
}

// Error implements error.
func (e *Timeout) Error() string {
	return "desim: operation timed out"
}

// NewTimeout constructs a *Timeout wrapping an optional reason.
func NewTimeout(reason error) *Timeout {
	return &Timeout{Interrupt{Reason: reason}}
}

// isUncaughtBug reports whether err, returned by a terminated Process
// body, represents a genuine defect rather than a normal Interrupt-based
// termination. nil and any error matching *Interrupt (which includes
// *Timeout, by embedding) are not bugs.
func isUncaughtBug(err error) bool {
	if err == nil {
		return false
	}
	var it *Interrupt
	if errors.As(err, &it) {
		return false
	}
	var to *Timeout
	return !errors.As(err, &to)
}

// WrapError wraps an error with contextual message, preserving the
// original error for errors.Is / errors.As via %w.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
