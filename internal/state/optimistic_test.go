package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleLayersPendingWrites(t *testing.T) {
	var tg Toggle
	assert.False(t, tg.Value())
	assert.False(t, tg.Busy())

	tg = tg.Begin("a", true)
	assert.True(t, tg.Value())
	assert.True(t, tg.Busy())

	tg = tg.Begin("b", false)
	assert.False(t, tg.Value())

	tg = tg.Succeed("a", true)
	assert.False(t, tg.Value(), "newest pending desire wins")
	assert.True(t, tg.Confirmed)

	tg = tg.Succeed("b", false)
	assert.False(t, tg.Value())
	assert.False(t, tg.Busy())
}

func TestToggleFailUnknownOpIsNoop(t *testing.T) {
	tg := Toggle{Confirmed: true, Known: true}.Begin("a", false)
	assert.Equal(t, tg, tg.Fail("zzz"))
}

func TestToggleConfirmKeepsPending(t *testing.T) {
	tg := Toggle{}.Begin("a", true).Confirm(false)
	assert.True(t, tg.Value())
	assert.True(t, tg.Known)

	tg = tg.Fail("a")
	assert.False(t, tg.Value())
}

func TestCountDelta(t *testing.T) {
	off := Toggle{}
	on := off.Begin("a", true)
	assert.Equal(t, 1, countDelta(off, on))
	assert.Equal(t, -1, countDelta(on, on.Fail("a")))
	assert.Equal(t, 0, countDelta(on, on.Succeed("a", true)))
}
