package tablestate

// Row is the minimal row shape the visibility engine needs. ParentID is 0
// for root rows; Level is the 1-based depth within the row's type.
type Row struct {
	ID       int
	ParentID int
	TypeKey  string
	Level    int
	RowNum   int
}

// HierarchyView computes the visible subset of a hierarchical grid from the
// derived type chain, the per-type always-visible depth, and the sets of
// expanded types and rows.
type HierarchyView struct {
	*Pager

	typeHierarchy map[string][]string
	typeLevels    map[string]int

	expandedTypes map[string]bool
	expandedRows  map[int]bool
}

// NewHierarchyView creates a view with everything collapsed. typeLevels maps
// a type key to the deepest level that stays visible without expanding; a
// missing entry defaults to 1 (roots only).
func NewHierarchyView(pager *Pager, typeHierarchy map[string][]string, typeLevels map[string]int) *HierarchyView {
	return &HierarchyView{
		Pager:         pager,
		typeHierarchy: typeHierarchy,
		typeLevels:    typeLevels,
		expandedTypes: map[string]bool{},
		expandedRows:  map[int]bool{},
	}
}

// SetTypeHierarchy swaps in a freshly derived chain, e.g. after a levelsync
// change notification.
func (v *HierarchyView) SetTypeHierarchy(typeHierarchy map[string][]string) {
	v.typeHierarchy = typeHierarchy
}

func (v *HierarchyView) ExpandType(key string)   { v.expandedTypes[key] = true }
func (v *HierarchyView) CollapseType(key string) { delete(v.expandedTypes, key) }

func (v *HierarchyView) ToggleType(key string) {
	if v.expandedTypes[key] {
		v.CollapseType(key)
	} else {
		v.ExpandType(key)
	}
}

func (v *HierarchyView) TypeExpanded(key string) bool { return v.expandedTypes[key] }

func (v *HierarchyView) ExpandRow(id int)   { v.expandedRows[id] = true }
func (v *HierarchyView) CollapseRow(id int) { delete(v.expandedRows, id) }

func (v *HierarchyView) ToggleRow(id int) {
	if v.expandedRows[id] {
		v.CollapseRow(id)
	} else {
		v.ExpandRow(id)
	}
}

func (v *HierarchyView) RowExpanded(id int) bool { return v.expandedRows[id] }

// reachableTypes walks the successor chain from every expanded type. The
// visited set guards against cycles even though derived chains are linear.
func (v *HierarchyView) reachableTypes() map[string]bool {
	reach := map[string]bool{}
	var walk func(key string)
	walk = func(key string) {
		if reach[key] {
			return
		}
		reach[key] = true
		for _, next := range v.typeHierarchy[key] {
			walk(next)
		}
	}
	for key, on := range v.expandedTypes {
		if on {
			walk(key)
		}
	}
	return reach
}

func (v *HierarchyView) minLevel(typeKey string) int {
	if min, ok := v.typeLevels[typeKey]; ok {
		return min
	}
	return 1
}

// Visible filters rows down to the visible subset and renumbers it 1..N in
// the original row order. A row is visible when its type is reachable from
// an expanded type and it either sits at or above its type's always-visible
// depth or is a direct child of an expanded, itself-visible row.
func (v *HierarchyView) Visible(rows []Row) []Row {
	reach := v.reachableTypes()

	byID := make(map[int]Row, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	var visible func(r Row, seen map[int]bool) bool
	visible = func(r Row, seen map[int]bool) bool {
		if seen[r.ID] {
			// Cyclic parent pointers; treat as hidden rather than recurse.
			return false
		}
		seen[r.ID] = true

		if !reach[r.TypeKey] {
			return false
		}
		if r.Level <= v.minLevel(r.TypeKey) {
			return true
		}
		parent, ok := byID[r.ParentID]
		if !ok {
			return false
		}
		return v.expandedRows[parent.ID] && visible(parent, seen)
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if visible(r, map[int]bool{}) {
			out = append(out, r)
		}
	}
	for i := range out {
		out[i].RowNum = i + 1
	}
	return out
}

// VisiblePage applies Visible and then the pager's current window.
func (v *HierarchyView) VisiblePage(rows []Row) []Row {
	vis := v.Visible(rows)
	start, end := v.Window(len(vis))
	return vis[start:end]
}
