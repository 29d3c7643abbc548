package desim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectFirstSignalWins(t *testing.T) {
	sched := NewScheduler()
	sigA := NewSignal()
	sigB := NewSignal()
	var result map[*Signal]bool
	var resolvedAt float64 = -1

	sched.Add(func(p *Process) error {
		var err error
		result, err = Select(p, 0, false, sigA, sigB)
		resolvedAt = p.Now()
		return err
	})

	sched.Add(func(p *Process) error {
		require.NoError(t, p.Advance(4))
		sigB.TurnOn()
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.Equal(t, 4.0, resolvedAt)
	assert.False(t, result[sigA])
	assert.True(t, result[sigB])
}

func TestSelectTimeout(t *testing.T) {
	sched := NewScheduler()
	sigA := NewSignal()
	var gotErr error

	sched.Add(func(p *Process) error {
		_, gotErr = Select(p, 2, true, sigA)
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	var to *Timeout
	assert.ErrorAs(t, gotErr, &to)
	assert.Equal(t, 2.0, sched.Now())
}

func TestSelectLateHelperIsInert(t *testing.T) {
	sched := NewScheduler()
	sigA := NewSignal()
	sigB := NewSignal()
	var result map[*Signal]bool

	sched.Add(func(p *Process) error {
		var err error
		result, err = Select(p, 1, true, sigA, sigB)
		return err
	})

	// Turns on sigA only after the caller's Select has already timed out;
	// the helper process waiting on sigA should have nothing left to wake.
	sched.Add(func(p *Process) error {
		require.NoError(t, p.Advance(5))
		sigA.TurnOn()
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.False(t, result[sigA])
	assert.False(t, result[sigB])
}
