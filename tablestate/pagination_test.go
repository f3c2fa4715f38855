package tablestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowNumberModes(t *testing.T) {
	p := NewPageNumbers("members", NewPager(25), NewMemoryStorage(), nil)

	// Per-page is the default: numbering resets on every page.
	assert.False(t, p.Sequential())
	assert.Equal(t, 4, p.RowNumber(2, 25, 3))

	p.Toggle()
	assert.True(t, p.Sequential())
	assert.Equal(t, 54, p.RowNumber(2, 25, 3))
}

func TestPageNumbersPersistence(t *testing.T) {
	storage := NewMemoryStorage()
	refreshed := 0

	p := NewPageNumbers("members", NewPager(25), storage, func() { refreshed++ })
	p.Toggle()
	assert.Equal(t, 1, refreshed)

	// A fresh instance for the same table restores the persisted mode.
	again := NewPageNumbers("members", NewPager(25), storage, nil)
	assert.True(t, again.Sequential())

	// A different table id is unaffected.
	other := NewPageNumbers("settlements", NewPager(25), storage, nil)
	assert.False(t, other.Sequential())
}

func TestPagerWindow(t *testing.T) {
	p := NewPager(10)

	start, end := p.Window(35)
	assert.Equal(t, 0, start)
	assert.Equal(t, 10, end)

	p.SetPage(3)
	start, end = p.Window(35)
	assert.Equal(t, 30, start)
	assert.Equal(t, 35, end)

	p.SetPage(9)
	start, end = p.Window(35)
	assert.Equal(t, 35, start)
	assert.Equal(t, 35, end)

	assert.Equal(t, 4, p.PageCount(35))
	assert.Equal(t, 0, p.PageCount(0))

	p.SetPageSize(20)
	assert.Equal(t, 0, p.Page(), "changing page size snaps to the first page")
}

func TestIndentModeTogglePersists(t *testing.T) {
	storage := NewMemoryStorage()
	refreshed := 0

	m := NewIndentMode("members", storage, func() { refreshed++ })
	assert.True(t, m.Enabled())

	m.Toggle()
	assert.False(t, m.Enabled())
	assert.Equal(t, 1, refreshed)

	again := NewIndentMode("members", storage, nil)
	assert.False(t, again.Enabled())
}
