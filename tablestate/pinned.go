package tablestate

import "encoding/json"

// GridState tracks who is currently driving the pin configuration, so that
// the grid echoing back a programmatic change is never mistaken for a user
// drag.
type GridState int

const (
	StateIdle GridState = iota
	StateApplyingProgrammatic
	StateObservingUser
)

// PinnedColumns tracks the set of columns pinned to the leading edge of a
// grid and reconciles programmatic changes with user drag-initiated ones
// reported back by the grid.
type PinnedColumns struct {
	tableID  string
	storage  Storage
	defaults []string

	// onApply pushes the pin set into the grid; onRefresh redraws cells.
	onApply   func(pinned []string)
	onRefresh func()

	state  GridState
	pinned []string
}

// NewPinnedColumns restores the persisted pin set for the given table.
// defaults is the fallback list ToggleDefaults applies when nothing is
// pinned.
func NewPinnedColumns(tableID string, storage Storage, defaults []string, onApply func([]string), onRefresh func()) *PinnedColumns {
	p := &PinnedColumns{
		tableID:   tableID,
		storage:   storage,
		defaults:  append([]string(nil), defaults...),
		onApply:   onApply,
		onRefresh: onRefresh,
		state:     StateIdle,
	}
	if raw, ok := storage.Get(p.key()); ok {
		var cols []string
		if err := json.Unmarshal([]byte(raw), &cols); err == nil {
			p.pinned = cols
		}
	}
	return p
}

func (p *PinnedColumns) key() string {
	return "pinnedColumns_" + p.tableID
}

// State exposes the reconciliation state.
func (p *PinnedColumns) State() GridState { return p.state }

// Pinned returns a copy of the current pin set.
func (p *PinnedColumns) Pinned() []string {
	return append([]string(nil), p.pinned...)
}

// Pin adds a column to the pin set.
func (p *PinnedColumns) Pin(column string) {
	for _, c := range p.pinned {
		if c == column {
			return
		}
	}
	p.apply(append(p.Pinned(), column))
}

// Unpin removes a column from the pin set.
func (p *PinnedColumns) Unpin(column string) {
	next := p.pinned[:0:0]
	for _, c := range p.pinned {
		if c != column {
			next = append(next, c)
		}
	}
	p.apply(next)
}

// Clear unpins everything.
func (p *PinnedColumns) Clear() {
	p.apply(nil)
}

// ToggleDefaults clears the pin set when columns are pinned, or applies the
// fallback list when nothing is.
func (p *PinnedColumns) ToggleDefaults() {
	if len(p.pinned) > 0 {
		p.Clear()
		return
	}
	p.apply(append([]string(nil), p.defaults...))
}

// ReconcileUserChange accepts the pin set the grid reports after a user
// drag. Echoes of our own programmatic changes are ignored.
func (p *PinnedColumns) ReconcileUserChange(columns []string) {
	if p.state == StateApplyingProgrammatic {
		return
	}
	p.state = StateObservingUser
	p.pinned = append([]string(nil), columns...)
	p.persist()
	p.state = StateIdle
}

// apply pushes a programmatic change into the grid. The state transition
// brackets onApply because grids report programmatic pin changes through the
// same callback as user drags.
func (p *PinnedColumns) apply(columns []string) {
	p.state = StateApplyingProgrammatic
	p.pinned = columns
	p.persist()
	if p.onApply != nil {
		p.onApply(p.Pinned())
	}
	p.state = StateIdle
	if p.onRefresh != nil {
		p.onRefresh()
	}
}

func (p *PinnedColumns) persist() {
	raw, err := json.Marshal(p.pinned)
	if err != nil {
		return
	}
	p.storage.Set(p.key(), string(raw))
}
