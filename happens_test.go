package desim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHappensSpawnsAtEachInterval(t *testing.T) {
	sched := NewScheduler()
	var spawnTimes []float64

	const period = 2.0
	count := 0
	intervals := func() (float64, bool) {
		if count >= 3 {
			return 0, false
		}
		count++
		return period, true
	}

	sched.Add(Happens(intervals, func(p *Process) error {
		spawnTimes = append(spawnTimes, p.Now())
		return nil
	}, "arrival"))

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.Equal(t, []float64{2, 4, 6}, spawnTimes)
}

func TestHappensTagsChildren(t *testing.T) {
	sched := NewScheduler()
	var sawTag bool

	once := false
	intervals := func() (float64, bool) {
		if once {
			return 0, false
		}
		once = true
		return 1, true
	}

	sched.Add(Happens(intervals, func(p *Process) error {
		sawTag = p.Tags().Has("arrival")
		return nil
	}, "arrival"))

	require.NoError(t, sched.Run(math.Inf(1)))
	assert.True(t, sawTag)
}
