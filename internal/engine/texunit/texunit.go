// Package texunit records which texture is bound to each texture unit.
//
// The table holds no GL calls. The render context consults it to skip
// redundant binds and to put back what a temporary upload bind displaced.
package texunit

// Binding is a texture bound to a unit.
type Binding struct {
	Target uint32
	ID     uint32
}

// Table maps texture units to their current binding.
type Table struct {
	units map[uint32]Binding
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{units: make(map[uint32]Binding)}
}

// Bind records b on unit. It reports false when b is already bound there.
func (t *Table) Bind(unit uint32, b Binding) bool {
	if cur, ok := t.units[unit]; ok && cur == b {
		return false
	}
	t.units[unit] = b
	return true
}

// Release clears unit if b is still bound there and reports whether it did.
// A unit rebound to something else since is left alone.
func (t *Table) Release(unit uint32, b Binding) bool {
	if cur, ok := t.units[unit]; !ok || cur != b {
		return false
	}
	delete(t.units, unit)
	return true
}

// Bound returns the binding recorded for unit.
func (t *Table) Bound(unit uint32) (Binding, bool) {
	b, ok := t.units[unit]
	return b, ok
}

// Restore returns the texture name to bind on target of unit after a
// temporary bind there: the recorded texture when it uses the same target,
// otherwise 0.
func (t *Table) Restore(unit, target uint32) uint32 {
	if b, ok := t.units[unit]; ok && b.Target == target {
		return b.ID
	}
	return 0
}

// Len returns the number of units with a recorded binding.
func (t *Table) Len() int { return len(t.units) }
