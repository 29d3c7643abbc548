package desim

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFORelease(t *testing.T) {
	sched := NewScheduler()
	q := NewQueue(nil)
	var released []string

	for i := 0; i < 3; i++ {
		i := i
		sched.Add(func(p *Process) error {
			p.SetName(fmt.Sprintf("p%d", i))
			require.NoError(t, p.Advance(float64(i)))
			return q.Join(p, 0, false)
		})
	}

	// Drain the queue once all three have joined.
	sched.Add(func(p *Process) error {
		require.NoError(t, p.Advance(10))
		for !q.IsEmpty() {
			w := q.Pop()
			released = append(released, w.Name())
			require.NoError(t, w.Resume())
		}
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.Equal(t, []string{"p0", "p1", "p2"}, released)
}

func TestQueueJoinTimeout(t *testing.T) {
	sched := NewScheduler()
	q := NewQueue(nil)
	var gotErr error

	sched.Add(func(p *Process) error {
		gotErr = q.Join(p, 5, true)
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	var to *Timeout
	assert.ErrorAs(t, gotErr, &to)
	assert.Equal(t, 5.0, sched.Now())
	assert.True(t, q.IsEmpty())
}

func TestQueuePriorityOrder(t *testing.T) {
	sched := NewScheduler()
	// Lower priority value wins regardless of join order: odd-numbered
	// joiners are pushed into a higher class, so every even joiner is
	// released before any odd one, with join order breaking ties.
	q := NewQueue(func(counter uint64) int { return int(counter) + 1_000_000*int(counter%2) })
	var order []string

	for i := 0; i < 4; i++ {
		i := i
		sched.Add(func(p *Process) error {
			p.SetName(fmt.Sprintf("p%d", i))
			require.NoError(t, p.Advance(float64(i)))
			return q.Join(p, 0, false)
		})
	}

	sched.Add(func(p *Process) error {
		require.NoError(t, p.Advance(10))
		for !q.IsEmpty() {
			w := q.Pop()
			order = append(order, w.Name())
			require.NoError(t, w.Resume())
		}
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.Equal(t, []string{"p0", "p2", "p1", "p3"}, order)
}

func TestQueueCustomTokenFuncOverridesFIFO(t *testing.T) {
	sched := NewScheduler()
	// Later joiners get lower (higher-priority) tokens, so release order
	// comes out the reverse of join order.
	q := NewQueue(func(counter uint64) int { return -int(counter) })
	var order []string

	for i := 0; i < 3; i++ {
		i := i
		sched.Add(func(p *Process) error {
			p.SetName(fmt.Sprintf("p%d", i))
			require.NoError(t, p.Advance(float64(i)))
			return q.Join(p, 0, false)
		})
	}

	sched.Add(func(p *Process) error {
		require.NoError(t, p.Advance(10))
		for !q.IsEmpty() {
			w := q.Pop()
			order = append(order, w.Name())
			require.NoError(t, w.Resume())
		}
		return nil
	})

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.Equal(t, []string{"p2", "p1", "p0"}, order)
}
