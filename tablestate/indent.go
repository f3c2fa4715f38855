package tablestate

import "strconv"

// IndentMode controls whether hierarchical rows render with visual
// indentation.
type IndentMode struct {
	tableID   string
	storage   Storage
	enabled   bool
	onRefresh func()
}

// NewIndentMode restores the persisted mode; indentation defaults to on.
func NewIndentMode(tableID string, storage Storage, onRefresh func()) *IndentMode {
	m := &IndentMode{
		tableID:   tableID,
		storage:   storage,
		enabled:   true,
		onRefresh: onRefresh,
	}
	if raw, ok := storage.Get(m.key()); ok {
		m.enabled = raw == "true"
	}
	return m
}

func (m *IndentMode) key() string {
	return "indentMode_" + m.tableID
}

func (m *IndentMode) Enabled() bool { return m.enabled }

// Toggle flips indentation, persists it and forces a grid refresh.
func (m *IndentMode) Toggle() {
	m.enabled = !m.enabled
	m.storage.Set(m.key(), strconv.FormatBool(m.enabled))
	if m.onRefresh != nil {
		m.onRefresh()
	}
}
