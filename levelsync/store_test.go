package levelsync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	backoffice "github.com/bohemiyan/backoffice"
)

type stubFetcher struct {
	levels []backoffice.AgentLevel
	err    error
}

func (f *stubFetcher) FetchAgentLevels(ctx context.Context) ([]backoffice.AgentLevel, error) {
	return f.levels, f.err
}

func level(id, order int, levelType string) backoffice.AgentLevel {
	return backoffice.AgentLevel{
		ID:             id,
		LevelType:      levelType,
		Permissions:    "full",
		HierarchyOrder: order,
	}
}

func TestTypeHierarchyLinearity(t *testing.T) {
	s := NewStore(nil)
	s.ApplyReordered([]backoffice.AgentLevel{
		level(10, 1, "Master"),
		level(20, 2, "Agent"),
		level(30, 3, "Member"),
	})

	h := s.TypeHierarchy()
	assert.Equal(t, []string{"agent_level_20"}, h["agent_level_10"])
	assert.Equal(t, []string{"agent_level_30"}, h["agent_level_20"])
	assert.Equal(t, []string{}, h["agent_level_30"])
}

func TestTypeHierarchyIgnoresInsertionOrder(t *testing.T) {
	s := NewStore(nil)
	s.ApplyReordered([]backoffice.AgentLevel{
		level(30, 3, "Member"),
		level(10, 1, "Master"),
		level(20, 2, "Agent"),
	})

	h := s.TypeHierarchy()
	assert.Equal(t, []string{"agent_level_20"}, h["agent_level_10"])
}

func TestTypesDescriptor(t *testing.T) {
	s := NewStore(nil)
	lvl := level(10, 1, "Master")
	lvl.BackgroundColor = "#2196f3"
	lvl.BorderColor = "#1565c0"
	s.ApplyAdded(lvl)

	types := s.Types()
	desc, ok := types["agent_level_10"]
	require.True(t, ok)
	assert.Equal(t, "Master", desc.Label)
	assert.Equal(t, "blue", desc.Color)
	assert.Equal(t, "#2196f3", desc.BackgroundColor)
	assert.Equal(t, "#1565c0", desc.BorderColor)
	assert.Equal(t, 1, desc.HierarchyOrder)
}

func TestApplyUpdatedReplacesById(t *testing.T) {
	s := NewStore(nil)
	s.ApplyAdded(level(10, 1, "Master"))

	renamed := level(10, 1, "Grand Master")
	s.ApplyUpdated(renamed)

	levels := s.Levels()
	require.Len(t, levels, 1)
	assert.Equal(t, "Grand Master", levels[0].LevelType)
}

func TestApplyUpdatedAppendsUnknownId(t *testing.T) {
	s := NewStore(nil)
	s.ApplyAdded(level(10, 1, "Master"))

	// An update for a row this client never saw; the server copy wins, so
	// keep it rather than drop it.
	s.ApplyUpdated(level(20, 2, "Agent"))

	levels := s.Levels()
	require.Len(t, levels, 2)
	assert.Contains(t, s.Types(), "agent_level_20")
}

func TestApplyDeletedFiltersById(t *testing.T) {
	s := NewStore(nil)
	s.ApplyAdded(level(10, 1, "Master"))
	s.ApplyAdded(level(20, 2, "Agent"))

	s.ApplyDeleted(10)

	levels := s.Levels()
	require.Len(t, levels, 1)
	assert.Equal(t, 20, levels[0].ID)

	h := s.TypeHierarchy()
	assert.Equal(t, []string{}, h["agent_level_20"])
	_, gone := h["agent_level_10"]
	assert.False(t, gone)
}

func TestApplyTableUpdate(t *testing.T) {
	s := NewStore(nil)

	added, _ := json.Marshal(level(10, 1, "Master"))
	require.NoError(t, s.ApplyTableUpdate(TableUpdate{Type: "added", Data: added}))
	require.Len(t, s.Levels(), 1)

	updated, _ := json.Marshal(level(10, 1, "Grand Master"))
	require.NoError(t, s.ApplyTableUpdate(TableUpdate{Type: "updated", Data: updated}))
	assert.Equal(t, "Grand Master", s.Levels()[0].LevelType)

	reordered, _ := json.Marshal([]backoffice.AgentLevel{
		level(20, 1, "Agent"),
		level(10, 2, "Grand Master"),
	})
	require.NoError(t, s.ApplyTableUpdate(TableUpdate{Type: "reordered", Data: reordered}))
	require.Len(t, s.Levels(), 2)

	require.NoError(t, s.ApplyTableUpdate(TableUpdate{Type: "deleted", ID: 20}))
	require.Len(t, s.Levels(), 1)

	assert.Error(t, s.ApplyTableUpdate(TableUpdate{Type: "exploded"}))
}

func TestReload(t *testing.T) {
	fetcher := &stubFetcher{levels: []backoffice.AgentLevel{level(10, 1, "Master")}}
	s := NewStore(fetcher)

	require.NoError(t, s.Reload(context.Background()))
	assert.Len(t, s.Levels(), 1)

	fetcher.err = errors.New("backend down")
	assert.Error(t, s.Reload(context.Background()))
}

func TestSubscribeNotifiesAsynchronously(t *testing.T) {
	s := NewStore(nil)

	got := make(chan Change, 1)
	unsubscribe := s.Subscribe(func(c Change) { got <- c })

	s.ApplyAdded(level(10, 1, "Master"))

	select {
	case c := <-got:
		assert.Equal(t, ChangeAdded, c.Type)
		require.Len(t, c.Levels, 1)
		assert.Contains(t, c.Types, "agent_level_10")
	case <-time.After(time.Second):
		t.Fatal("listener was never notified")
	}

	unsubscribe()
	s.ApplyAdded(level(20, 2, "Agent"))

	select {
	case <-got:
		t.Fatal("unsubscribed listener was notified")
	case <-time.After(50 * time.Millisecond):
	}
}

// Listeners reconcile whole snapshots, so delivery must be FIFO: an older
// snapshot arriving after a newer one would leave the consumer stale forever.
func TestListenerSeesChangesInMutationOrder(t *testing.T) {
	s := NewStore(nil)
	defer s.Close()

	const n = 200
	var mu sync.Mutex
	var counts []int
	done := make(chan struct{})
	s.Subscribe(func(c Change) {
		mu.Lock()
		counts = append(counts, len(c.Levels))
		if len(counts) == n {
			close(done)
		}
		mu.Unlock()
	})

	for i := 1; i <= n; i++ {
		s.ApplyAdded(level(i, i, "Agent"))
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("not every change was delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, rows := range counts {
		require.Equal(t, i+1, rows, "delivery %d out of order", i)
	}
}

func TestCloseStopsNotifications(t *testing.T) {
	s := NewStore(nil)

	got := make(chan Change, 1)
	s.Subscribe(func(c Change) { got <- c })
	s.Close()

	s.ApplyAdded(level(10, 1, "Master"))

	select {
	case <-got:
		t.Fatal("closed store notified a listener")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestColorBucket(t *testing.T) {
	cases := []struct {
		hex, want string
	}{
		{"#f44336", "red"},
		{"#2196F3", "blue"},
		{"  #4caf50 ", "green"},
		{"#f44399", "red"},     // near-palette shade, substring fallback
		{"#abcdef", "default"}, // nothing close
		{"", "default"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, colorBucket(c.hex), "hex %q", c.hex)
	}
}
