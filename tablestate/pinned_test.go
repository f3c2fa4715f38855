package tablestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPinUnpinClear(t *testing.T) {
	p := NewPinnedColumns("members", NewMemoryStorage(), nil, nil, nil)

	p.Pin("name")
	p.Pin("balance")
	p.Pin("name") // already pinned
	assert.Equal(t, []string{"name", "balance"}, p.Pinned())

	p.Unpin("name")
	assert.Equal(t, []string{"balance"}, p.Pinned())

	p.Clear()
	assert.Empty(t, p.Pinned())
}

func TestToggleDefaults(t *testing.T) {
	defaults := []string{"rowNum", "name"}
	p := NewPinnedColumns("members", NewMemoryStorage(), defaults, nil, nil)

	p.ToggleDefaults()
	assert.Equal(t, defaults, p.Pinned())

	p.ToggleDefaults()
	assert.Empty(t, p.Pinned())
}

func TestPinnedPersistence(t *testing.T) {
	storage := NewMemoryStorage()

	p := NewPinnedColumns("members", storage, nil, nil, nil)
	p.Pin("name")

	again := NewPinnedColumns("members", storage, nil, nil, nil)
	assert.Equal(t, []string{"name"}, again.Pinned())
}

// The grid reports programmatic pin changes through the same callback as
// user drags; the FSM must keep the echo from being treated as user input.
func TestReconcileIgnoresProgrammaticEcho(t *testing.T) {
	var p *PinnedColumns
	onApply := func(pinned []string) {
		// Simulate the grid synchronously echoing the change back.
		assert.Equal(t, StateApplyingProgrammatic, p.State())
		p.ReconcileUserChange(nil)
	}
	p = NewPinnedColumns("members", NewMemoryStorage(), nil, onApply, nil)

	p.Pin("name")
	assert.Equal(t, []string{"name"}, p.Pinned(), "echo must not clobber the pin")
	assert.Equal(t, StateIdle, p.State())
}

func TestReconcileAcceptsUserChange(t *testing.T) {
	storage := NewMemoryStorage()
	p := NewPinnedColumns("members", storage, nil, nil, nil)

	p.ReconcileUserChange([]string{"balance", "status"})
	assert.Equal(t, []string{"balance", "status"}, p.Pinned())
	assert.Equal(t, StateIdle, p.State())

	// The user-driven change persists like a programmatic one.
	again := NewPinnedColumns("members", storage, nil, nil, nil)
	assert.Equal(t, []string{"balance", "status"}, again.Pinned())
}

func TestApplyTriggersGridAndRefresh(t *testing.T) {
	var applied [][]string
	refreshed := 0
	p := NewPinnedColumns("members", NewMemoryStorage(), nil,
		func(pinned []string) { applied = append(applied, pinned) },
		func() { refreshed++ })

	p.Pin("name")
	p.Clear()

	require.Len(t, applied, 2)
	assert.Equal(t, []string{"name"}, applied[0])
	assert.Empty(t, applied[1])
	assert.Equal(t, 2, refreshed)
}
