package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type rec struct {
	ID   int
	Name string
}

func recKey(r rec) int { return r.ID }

func TestEntityMapUpsertDeduplicates(t *testing.T) {
	m := NewEntityMap(recKey, rec{1, "a"}, rec{2, "b"})
	m2 := m.UpsertMany(recKey, []rec{{2, "B"}, {3, "c"}})

	assert.Equal(t, 3, m2.Len())
	assert.Equal(t, []int{1, 2, 3}, m2.IDs())
	v, _ := m2.Get(2)
	assert.Equal(t, "B", v.Name)

	// receiver untouched
	assert.Equal(t, 2, m.Len())
	old, _ := m.Get(2)
	assert.Equal(t, "b", old.Name)
}

func TestEntityMapSetAllReplaces(t *testing.T) {
	m := NewEntityMap(recKey, rec{1, "a"}, rec{2, "b"})
	m2 := m.SetAll(recKey, []rec{{9, "z"}})
	assert.Equal(t, []int{9}, m2.IDs())
	assert.False(t, m2.Has(1))
}

func TestEntityMapPrependKeepsExistingPositions(t *testing.T) {
	m := NewEntityMap(recKey, rec{1, "a"}, rec{2, "b"})
	m2 := m.Prepend(recKey, []rec{{3, "c"}, {2, "B"}})
	assert.Equal(t, []int{3, 1, 2}, m2.IDs())
	v, _ := m2.Get(2)
	assert.Equal(t, "B", v.Name)
}

func TestEntityMapRemoveAndUpdate(t *testing.T) {
	m := NewEntityMap(recKey, rec{1, "a"}, rec{2, "b"}, rec{3, "c"})
	m2 := m.Remove(2, 42)
	assert.Equal(t, []int{1, 3}, m2.IDs())
	assert.Equal(t, 3, m.Len())

	m3 := m2.Update(3, func(r rec) rec { r.Name = "C"; return r })
	v, _ := m3.Get(3)
	assert.Equal(t, "C", v.Name)
	v, _ = m2.Get(3)
	assert.Equal(t, "c", v.Name)

	assert.Equal(t, m2.IDs(), m2.Update(99, func(r rec) rec { return r }).IDs())
}

func TestLoadableInvariants(t *testing.T) {
	var l Loadable[int]
	l = l.Start("r1")
	assert.True(t, l.IsLoading)
	assert.False(t, l.IsLoaded)

	l = l.Succeed("r1", 5)
	assert.False(t, l.IsLoading)
	assert.True(t, l.IsLoaded)
	assert.Equal(t, 5, l.Value)

	l = l.Start("r2")
	assert.False(t, l.IsLoaded && l.IsLoading)
	assert.Equal(t, 5, l.Value, "value survives a new attempt")

	l = l.Fail("r2", assert.AnError)
	assert.Equal(t, 5, l.Value, "failure keeps the stale value")
	assert.ErrorIs(t, l.Err, assert.AnError)
	assert.False(t, l.IsLoading)

	l = l.Start("r3")
	assert.NoError(t, l.Err, "error cleared on next attempt")
}

func TestLoadableDropsStaleResults(t *testing.T) {
	var l Loadable[string]
	l = l.Start("old").Start("new")
	l = l.Succeed("old", "stale")
	assert.True(t, l.IsLoading)
	assert.Empty(t, l.Value)

	l = l.Succeed("new", "fresh")
	assert.Equal(t, "fresh", l.Value)

	l = l.Fail("new", assert.AnError)
	assert.NoError(t, l.Err, "a finished request cannot fail afterwards")
}

func TestTryStartIgnoresWhileBusy(t *testing.T) {
	var l Loadable[int]
	l, ok := l.TryStart("a")
	assert.True(t, ok)
	l, ok = l.TryStart("b")
	assert.False(t, ok)
	assert.Equal(t, "a", l.Request)
}
