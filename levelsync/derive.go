package levelsync

import (
	"fmt"
	"sort"
	"strings"
)

// TypeDescriptor is the display descriptor derived from one agent level.
type TypeDescriptor struct {
	ID              string `json:"id"`
	Label           string `json:"label"`
	Color           string `json:"color"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	Permissions     string `json:"permissions"`
	HierarchyOrder  int    `json:"hierarchyOrder"`
}

// TypeKey returns the synthetic descriptor key for a level id.
func TypeKey(id int) string {
	return fmt.Sprintf("agent_level_%d", id)
}

// rebuildLocked recomputes both derived caches from scratch. Incremental
// patching would drift; the row count is tens, not thousands, so a full
// rebuild per change is cheap.
func (s *Store) rebuildLocked() {
	sorted := make([]struct {
		id, order int
	}, 0, len(s.levels))

	types := make(map[string]TypeDescriptor, len(s.levels))
	for _, lvl := range s.levels {
		key := TypeKey(lvl.ID)
		types[key] = TypeDescriptor{
			ID:              key,
			Label:           lvl.LevelType,
			Color:           colorBucket(lvl.BackgroundColor),
			BackgroundColor: lvl.BackgroundColor,
			BorderColor:     lvl.BorderColor,
			Permissions:     lvl.Permissions,
			HierarchyOrder:  lvl.HierarchyOrder,
		}
		sorted = append(sorted, struct{ id, order int }{lvl.ID, lvl.HierarchyOrder})
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].order != sorted[j].order {
			return sorted[i].order < sorted[j].order
		}
		return sorted[i].id < sorted[j].id
	})

	// A linked list, not a tree: each type points at the single next type in
	// hierarchy order, and the last points at nothing.
	hierarchy := make(map[string][]string, len(sorted))
	for i, entry := range sorted {
		key := TypeKey(entry.id)
		if i+1 < len(sorted) {
			hierarchy[key] = []string{TypeKey(sorted[i+1].id)}
		} else {
			hierarchy[key] = []string{}
		}
	}

	s.types = types
	s.hierarchy = hierarchy
}

// Fixed palette the dashboard assigns to level backgrounds.
var colorNames = map[string]string{
	"#f44336": "red",
	"#e91e63": "pink",
	"#9c27b0": "purple",
	"#3f51b5": "indigo",
	"#2196f3": "blue",
	"#4caf50": "green",
	"#ff9800": "orange",
	"#ffeb3b": "yellow",
	"#9e9e9e": "grey",
	"#795548": "brown",
}

// Ordered fragments for near-palette shades; first match wins.
var colorFallbacks = []struct {
	fragment, name string
}{
	{"f44", "red"},
	{"e91", "pink"},
	{"9c2", "purple"},
	{"3f5", "indigo"},
	{"219", "blue"},
	{"4ca", "green"},
	{"ff9", "orange"},
	{"ffe", "yellow"},
	{"9e9", "grey"},
	{"795", "brown"},
}

// colorBucket maps a background hex to a semantic color bucket, falling back
// to a substring match for shades close to the palette.
func colorBucket(hex string) string {
	h := strings.ToLower(strings.TrimSpace(hex))
	if name, ok := colorNames[h]; ok {
		return name
	}
	bare := strings.TrimPrefix(h, "#")
	for _, f := range colorFallbacks {
		if strings.Contains(bare, f.fragment) {
			return f.name
		}
	}
	return "default"
}
