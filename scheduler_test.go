package desim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerSingleAdvance(t *testing.T) {
	sched := NewScheduler()
	var seen float64 = -1

	sched.Add(func(p *Process) error {
		require.NoError(t, p.Advance(5))
		seen = p.Now()
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.Equal(t, 5.0, seen)
	assert.Equal(t, 5.0, sched.Now())
}

func TestSchedulerEqualTimeOrdering(t *testing.T) {
	sched := NewScheduler()
	var order []int

	for i := 0; i < 3; i++ {
		i := i
		sched.Add(func(p *Process) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestSchedulerAddInValidation(t *testing.T) {
	sched := NewScheduler()
	_, err := sched.AddIn(-1, func(p *Process) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidDelay)
}

func TestSchedulerAddAtPastMoment(t *testing.T) {
	sched := NewScheduler(WithClock(10))
	_, err := sched.AddAt(5, func(p *Process) error { return nil })
	assert.ErrorIs(t, err, ErrTimeInPast)
}

func TestSchedulerRunDuration(t *testing.T) {
	sched := NewScheduler()
	var ran []float64

	sched.Add(func(p *Process) error {
		for i := 0; i < 5; i++ {
			ran = append(ran, p.Now())
			if err := p.Advance(1); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, sched.Run(2.5))
	assert.Equal(t, []float64{0, 1, 2}, ran)
	assert.Equal(t, 2.5, sched.Now())
}

func TestSchedulerBugEscapesRun(t *testing.T) {
	sched := NewScheduler()
	boom := assertErr("boom")

	sched.Add(func(p *Process) error {
		return boom
	})

	err := sched.Run(math.Inf(1))
	assert.ErrorIs(t, err, boom)
}

func TestSchedulerInterruptIsNotABug(t *testing.T) {
	sched := NewScheduler()
	var terminated bool

	var target *Process
	target = sched.Add(func(p *Process) error {
		err := p.Pause()
		terminated = true
		return err
	})

	sched.Add(func(p *Process) error {
		require.NoError(t, p.Advance(1))
		return target.Interrupt(assertErr("shutdown"))
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.True(t, terminated)
}

func TestSchedulerMetrics(t *testing.T) {
	sched := NewScheduler(WithMetrics(true))

	sched.Add(func(p *Process) error {
		return p.Advance(1)
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	m := sched.Metrics()
	require.NotNil(t, m)
	assert.EqualValues(t, 1, m.ProcessesCreated)
	assert.EqualValues(t, 1, m.ProcessesTerminated)
	assert.GreaterOrEqual(t, m.EventsExecuted, uint64(2))
}

func TestSchedulerCurrentProcess(t *testing.T) {
	sched := NewScheduler()
	_, err := sched.CurrentProcess()
	assert.ErrorIs(t, err, ErrNotInProcess)

	var sawSelf bool
	sched.Add(func(p *Process) error {
		cur, err := p.Scheduler().CurrentProcess()
		require.NoError(t, err)
		sawSelf = cur == p
		return nil
	})
	require.NoError(t, sched.Run(math.Inf(1)))
	assert.True(t, sawSelf)
}

// assertErr is a tiny error helper kept local to tests so they don't need
// to depend on errors.New sentinels declared for production code.
type assertErrType string

func (e assertErrType) Error() string { return string(e) }

func assertErr(msg string) error { return assertErrType(msg) }
