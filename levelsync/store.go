// Package levelsync maintains a client-side copy of the agent-level list and
// the display caches derived from it, mirroring what the dashboard keeps in
// the browser.
package levelsync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	backoffice "github.com/bohemiyan/backoffice"
)

// ChangeType identifies what triggered a recompute.
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeUpdated   ChangeType = "updated"
	ChangeDeleted   ChangeType = "deleted"
	ChangeReordered ChangeType = "reordered"
	ChangeReloaded  ChangeType = "reloaded"
)

// Change is delivered to subscribers after every mutation, carrying the
// freshly rebuilt caches.
type Change struct {
	Type          ChangeType
	Levels        []backoffice.AgentLevel
	Types         map[string]TypeDescriptor
	TypeHierarchy map[string][]string
}

// Fetcher supplies the authoritative snapshot, typically backed by the REST
// list endpoint or the websocket snapshot channel.
type Fetcher interface {
	FetchAgentLevels(ctx context.Context) ([]backoffice.AgentLevel, error)
}

// Store holds the local level list and rebuilds the Types and TypeHierarchy
// caches in full after every change. Listeners run off the mutating call's
// goroutine on a single dispatch loop, so they see changes in the order they
// happened and a heavy consumer never blocks the event that triggered one.
type Store struct {
	fetcher Fetcher

	mu        sync.RWMutex
	levels    []backoffice.AgentLevel
	types     map[string]TypeDescriptor
	hierarchy map[string][]string
	listeners map[int]func(Change)
	nextID    int
	closed    bool

	pending  chan Change
	quit     chan struct{}
	stopOnce sync.Once
}

// NewStore creates an empty store. Call Reload to pull the first snapshot.
func NewStore(fetcher Fetcher) *Store {
	s := &Store{
		fetcher:   fetcher,
		types:     map[string]TypeDescriptor{},
		hierarchy: map[string][]string{},
		listeners: map[int]func(Change){},
		pending:   make(chan Change, 64),
		quit:      make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// Reload replaces the local list with a fresh snapshot from the fetcher.
func (s *Store) Reload(ctx context.Context) error {
	if s.fetcher == nil {
		return fmt.Errorf("no fetcher configured")
	}
	levels, err := s.fetcher.FetchAgentLevels(ctx)
	if err != nil {
		return err
	}
	s.replace(levels, ChangeReloaded)
	return nil
}

// ApplyAdded splices a pushed row into the local list.
func (s *Store) ApplyAdded(level backoffice.AgentLevel) {
	s.mu.Lock()
	s.levels = append(s.levels, level)
	s.rebuildLocked()
	change := s.changeLocked(ChangeAdded)
	s.mu.Unlock()
	s.notify(change)
}

// ApplyUpdated replaces the row with a matching id. Unknown ids are appended
// rather than dropped; the server copy wins either way.
func (s *Store) ApplyUpdated(level backoffice.AgentLevel) {
	s.mu.Lock()
	found := false
	for i := range s.levels {
		if s.levels[i].ID == level.ID {
			s.levels[i] = level
			found = true
			break
		}
	}
	if !found {
		s.levels = append(s.levels, level)
	}
	s.rebuildLocked()
	change := s.changeLocked(ChangeUpdated)
	s.mu.Unlock()
	s.notify(change)
}

// ApplyDeleted filters the row with the given id out of the local list.
func (s *Store) ApplyDeleted(id int) {
	s.mu.Lock()
	kept := s.levels[:0]
	for _, lvl := range s.levels {
		if lvl.ID != id {
			kept = append(kept, lvl)
		}
	}
	s.levels = kept
	s.rebuildLocked()
	change := s.changeLocked(ChangeDeleted)
	s.mu.Unlock()
	s.notify(change)
}

// ApplyReordered replaces the list wholesale after a server-side reorder.
func (s *Store) ApplyReordered(levels []backoffice.AgentLevel) {
	s.replace(levels, ChangeReordered)
}

// TableUpdate mirrors the payload broadcast to the table-updates room.
type TableUpdate struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	ID   int             `json:"id,omitempty"`
}

// ApplyTableUpdate decodes and applies one table-updates payload.
func (s *Store) ApplyTableUpdate(u TableUpdate) error {
	switch u.Type {
	case "added", "updated":
		var level backoffice.AgentLevel
		if err := json.Unmarshal(u.Data, &level); err != nil {
			return fmt.Errorf("failed to decode level payload: %w", err)
		}
		if u.Type == "added" {
			s.ApplyAdded(level)
		} else {
			s.ApplyUpdated(level)
		}
	case "deleted":
		s.ApplyDeleted(u.ID)
	case "reordered":
		var levels []backoffice.AgentLevel
		if err := json.Unmarshal(u.Data, &levels); err != nil {
			return fmt.Errorf("failed to decode level list payload: %w", err)
		}
		s.ApplyReordered(levels)
	default:
		return fmt.Errorf("unknown table update type %q", u.Type)
	}
	return nil
}

// Subscribe registers a callback invoked after every change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close drops all listeners and stops the dispatch loop; subsequent changes
// notify nobody.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.listeners = map[int]func(Change){}
	s.mu.Unlock()
	s.stopOnce.Do(func() { close(s.quit) })
}

// Levels returns a copy of the local row list.
func (s *Store) Levels() []backoffice.AgentLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]backoffice.AgentLevel, len(s.levels))
	copy(out, s.levels)
	return out
}

// Types returns a copy of the derived descriptor map.
func (s *Store) Types() map[string]TypeDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTypes(s.types)
}

// TypeHierarchy returns a copy of the derived successor chain.
func (s *Store) TypeHierarchy() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyHierarchy(s.hierarchy)
}

func (s *Store) replace(levels []backoffice.AgentLevel, t ChangeType) {
	s.mu.Lock()
	s.levels = make([]backoffice.AgentLevel, len(levels))
	copy(s.levels, levels)
	s.rebuildLocked()
	change := s.changeLocked(t)
	s.mu.Unlock()
	s.notify(change)
}

func (s *Store) changeLocked(t ChangeType) Change {
	levels := make([]backoffice.AgentLevel, len(s.levels))
	copy(levels, s.levels)
	return Change{
		Type:          t,
		Levels:        levels,
		Types:         copyTypes(s.types),
		TypeHierarchy: copyHierarchy(s.hierarchy),
	}
}

// notify queues a change for the dispatch loop. Delivery is asynchronous but
// FIFO; a full queue briefly backpressures the mutating call.
func (s *Store) notify(change Change) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return
	}
	select {
	case s.pending <- change:
	case <-s.quit:
	}
}

// dispatch delivers queued changes to the current listener set, one change at
// a time, preserving the order mutations happened in.
func (s *Store) dispatch() {
	for {
		select {
		case change := <-s.pending:
			s.mu.RLock()
			fns := make([]func(Change), 0, len(s.listeners))
			for _, fn := range s.listeners {
				fns = append(fns, fn)
			}
			s.mu.RUnlock()

			for _, fn := range fns {
				fn(change)
			}
		case <-s.quit:
			return
		}
	}
}

func copyTypes(in map[string]TypeDescriptor) map[string]TypeDescriptor {
	out := make(map[string]TypeDescriptor, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyHierarchy(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		next := make([]string, len(v))
		copy(next, v)
		out[k] = next
	}
	return out
}
