package tablestate

import "strconv"

// PageNumbers computes the row-number column of a paginated grid in one of
// two modes: sequential numbering runs across pages, per-page numbering
// resets on every page.
type PageNumbers struct {
	*Pager

	tableID    string
	storage    Storage
	sequential bool
	onRefresh  func()
}

// NewPageNumbers restores the persisted mode for the given table.
func NewPageNumbers(tableID string, pager *Pager, storage Storage, onRefresh func()) *PageNumbers {
	p := &PageNumbers{
		Pager:     pager,
		tableID:   tableID,
		storage:   storage,
		onRefresh: onRefresh,
	}
	if raw, ok := storage.Get(p.key()); ok {
		p.sequential = raw == "true"
	}
	return p
}

func (p *PageNumbers) key() string {
	return "sequentialPageNumbers_" + p.tableID
}

// Sequential reports whether numbering runs across pages.
func (p *PageNumbers) Sequential() bool { return p.sequential }

// Toggle flips the numbering mode, persists it and forces a grid refresh so
// every visible number cell is recomputed.
func (p *PageNumbers) Toggle() {
	p.sequential = !p.sequential
	p.storage.Set(p.key(), strconv.FormatBool(p.sequential))
	if p.onRefresh != nil {
		p.onRefresh()
	}
}

// RowNumber returns the 1-based display number for the row at index within
// the given 0-based page.
func (p *PageNumbers) RowNumber(page, pageSize, index int) int {
	if p.sequential {
		return page*pageSize + index + 1
	}
	return index%pageSize + 1
}
