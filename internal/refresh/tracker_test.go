package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeginRequiresActivation(t *testing.T) {
	var tr Tracker
	_, ok := tr.Begin()
	assert.False(t, ok)

	tr.Activate()
	tk, ok := tr.Begin()
	require.True(t, ok)
	assert.True(t, tr.Busy())
	assert.True(t, tr.Accept(tk))
	assert.False(t, tr.Busy())
}

func TestConcurrentTriggerIsCoalesced(t *testing.T) {
	var tr Tracker
	tr.Activate()
	first, ok := tr.Begin()
	require.True(t, ok)

	_, ok = tr.Begin()
	assert.False(t, ok, "second trigger while in flight must not start a fetch")

	assert.True(t, tr.Accept(first))
	_, ok = tr.Begin()
	assert.True(t, ok, "a trigger after completion starts a new fetch")
}

func TestResponseAcceptedOnlyOnce(t *testing.T) {
	var tr Tracker
	tr.Activate()
	tk, _ := tr.Begin()
	assert.True(t, tr.Accept(tk))

	next, _ := tr.Begin()
	assert.False(t, tr.Accept(tk), "older sequence must not be applied over a newer fetch")
	assert.True(t, tr.Accept(next))
}

func TestLateResponseAfterReactivationIsDiscarded(t *testing.T) {
	var tr Tracker
	tr.Activate()
	stale, ok := tr.Begin()
	require.True(t, ok)

	tr.Deactivate()
	assert.False(t, tr.Accept(stale), "unmounted screen ignores responses")

	tr.Activate()
	fresh, ok := tr.Begin()
	require.True(t, ok, "reactivation clears the in-flight mark")

	// newer fetch lands first, then the stale one arrives late
	assert.True(t, tr.Accept(fresh))
	assert.False(t, tr.Accept(stale))

	// and the other way around
	again, _ := tr.Begin()
	assert.False(t, tr.Accept(stale))
	assert.True(t, tr.Accept(again))
}

func TestCurrent(t *testing.T) {
	var tr Tracker
	tr.Activate()
	tk := Ticket{Epoch: tr.Epoch()}
	assert.True(t, tr.Current(tk))
	tr.Deactivate()
	assert.False(t, tr.Current(tk))
	assert.False(t, tr.Active())
}

func TestLive(t *testing.T) {
	var tr Tracker
	assert.False(t, tr.Live(tr.Epoch()))
	tr.Activate()
	epoch := tr.Epoch()
	_, _ = tr.Begin()
	assert.True(t, tr.Live(epoch), "an in-flight fetch does not matter")
	tr.Deactivate()
	tr.Activate()
	assert.False(t, tr.Live(epoch))
	assert.True(t, tr.Live(tr.Epoch()))
}
