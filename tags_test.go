package desim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagSetApplyRemove(t *testing.T) {
	ts := NewTagSet("a", "b")
	assert.True(t, ts.Has("a"))
	assert.True(t, ts.Has("b"))
	assert.False(t, ts.Has("c"))

	ts.Apply("c")
	assert.True(t, ts.Has("c"))

	ts.Remove("a")
	assert.False(t, ts.Has("a"))
}

func TestTagSetZeroValueApply(t *testing.T) {
	var ts TagSet
	ts.Apply("a")
	assert.True(t, ts.Has("a"))

	var ts2 TagSet
	ts2.ApplySet(NewTagSet("b", "c"))
	assert.True(t, ts2.Has("b"))
	assert.True(t, ts2.Has("c"))
}

func TestTagSetUnionLeavesInputsUntouched(t *testing.T) {
	a := NewTagSet("x")
	b := NewTagSet("y")
	u := a.Union(b)

	assert.True(t, u.Has("x"))
	assert.True(t, u.Has("y"))
	assert.False(t, a.Has("y"))
	assert.False(t, b.Has("x"))
}

func TestTagSetMatchRequiresAll(t *testing.T) {
	ts := NewTagSet("a", "b")
	assert.True(t, ts.Match("a", "b"))
	assert.False(t, ts.Match("a", "c"))
}

func TestTagSetClear(t *testing.T) {
	ts := NewTagSet("a", "b")
	ts.Clear()
	assert.False(t, ts.Has("a"))
	assert.Equal(t, 0, len(ts))
}

func TestTagSetApplyRemoveSet(t *testing.T) {
	ts := NewTagSet("a")
	ts.ApplySet(NewTagSet("b", "c"))
	assert.True(t, ts.Has("b"))
	assert.True(t, ts.Has("c"))

	ts.RemoveSet(NewTagSet("b"))
	assert.False(t, ts.Has("b"))
	assert.True(t, ts.Has("c"))
}
