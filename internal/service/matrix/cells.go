package matrix

import (
	"sync"
)

// Key addresses one cell of the matrix.
type Key struct {
	ParroquiaID int64
	VariableID  int64
}

// Cell is the mutable unit of the matrix. ID stays nil until the backend
// assigns one; after that every write of the cell is an update.
type Cell struct {
	Cantidad *float64
	Costo    *float64
	ID       *int64
}

// Empty cells are never persisted.
func (c Cell) Empty() bool {
	return c.Cantidad == nil && c.Costo == nil
}

func (c Cell) sameContent(o Cell) bool {
	return floatPtrEqual(c.Cantidad, o.Cantidad) && floatPtrEqual(c.Costo, o.Costo)
}

func (c Cell) clone() Cell {
	return Cell{Cantidad: copyFloat(c.Cantidad), Costo: copyFloat(c.Costo), ID: copyInt(c.ID)}
}

// NumberPatch is a tri-state field update: untouched, cleared or set.
type NumberPatch struct {
	set   bool
	value *float64
}

func Set(v float64) NumberPatch {
	return NumberPatch{set: true, value: &v}
}

func SetPtr(v *float64) NumberPatch {
	return NumberPatch{set: true, value: copyFloat(v)}
}

func Clear() NumberPatch {
	return NumberPatch{set: true}
}

func (p NumberPatch) IsSet() bool {
	return p.set
}

// CellPatch is shallow-merged into a cell. A nil ID leaves the known id alone.
type CellPatch struct {
	Cantidad NumberPatch
	Costo    NumberPatch
	ID       *int64
}

// Cells is the in-memory sparse matrix plus its parallel record-id index.
// Commit is the only way to change cell content.
type Cells struct {
	mu sync.RWMutex

	cells     map[int64]map[int64]*Cell
	recordIDs map[int64]map[int64]int64
	// last content known to be stored on the server, per cell
	confirmed map[Key]Cell
}

func NewCells() *Cells {
	return &Cells{
		cells:     make(map[int64]map[int64]*Cell),
		recordIDs: make(map[int64]map[int64]int64),
		confirmed: make(map[Key]Cell),
	}
}

func (c *Cells) Value(parroquiaID, variableID int64) (Cell, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cell, ok := c.cells[parroquiaID][variableID]
	if !ok {
		return Cell{}, false
	}
	return cell.clone(), true
}

func (c *Cells) Commit(parroquiaID, variableID int64, patch CellPatch) Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commitLocked(parroquiaID, variableID, patch)
}

func (c *Cells) commitLocked(parroquiaID, variableID int64, patch CellPatch) Cell {
	row, ok := c.cells[parroquiaID]
	if !ok {
		row = make(map[int64]*Cell)
		c.cells[parroquiaID] = row
	}
	cell, ok := row[variableID]
	if !ok {
		cell = &Cell{}
		row[variableID] = cell
	}

	if patch.Cantidad.set {
		cell.Cantidad = copyFloat(patch.Cantidad.value)
	}
	if patch.Costo.set {
		cell.Costo = copyFloat(patch.Costo.value)
	}
	if patch.ID != nil {
		id := *patch.ID
		cell.ID = &id
		c.setIndexLocked(parroquiaID, variableID, id)
	}

	return cell.clone()
}

func (c *Cells) setIndexLocked(parroquiaID, variableID, id int64) {
	row, ok := c.recordIDs[parroquiaID]
	if !ok {
		row = make(map[int64]int64)
		c.recordIDs[parroquiaID] = row
	}
	row[variableID] = id
}

// RecordID resolves the backend id of a cell from the index, falling back to
// the cell itself.
func (c *Cells) RecordID(parroquiaID, variableID int64) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recordIDLocked(parroquiaID, variableID)
}

func (c *Cells) recordIDLocked(parroquiaID, variableID int64) (int64, bool) {
	if id, ok := c.recordIDs[parroquiaID][variableID]; ok {
		return id, true
	}
	if cell, ok := c.cells[parroquiaID][variableID]; ok && cell.ID != nil {
		return *cell.ID, true
	}
	return 0, false
}

// Reconcile stores the id the backend assigned to a cell in both the index
// and the cell, and records the content the server now holds.
func (c *Cells) Reconcile(key Key, id int64, stored Cell) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.commitLocked(key.ParroquiaID, key.VariableID, CellPatch{ID: &id})
	c.confirmed[key] = Cell{Cantidad: copyFloat(stored.Cantidad), Costo: copyFloat(stored.Costo)}
}

// Dirty reports whether the cell differs from what the server last confirmed.
// Cells never confirmed are dirty.
func (c *Cells) Dirty(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cell, ok := c.cells[key.ParroquiaID][key.VariableID]
	if !ok {
		return false
	}
	confirmed, ok := c.confirmed[key]
	if !ok {
		return true
	}
	return !cell.sameContent(confirmed)
}

// Merge folds one server row into the matrix. Content is overwritten, but an
// id already known locally survives a row that carries none.
func (c *Cells) Merge(key Key, cantidad, costo *float64, id *int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := c.commitLocked(key.ParroquiaID, key.VariableID, CellPatch{
		Cantidad: SetPtr(cantidad),
		Costo:    SetPtr(costo),
		ID:       id,
	})
	c.confirmed[key] = Cell{Cantidad: merged.Cantidad, Costo: merged.Costo}
}

func (c *Cells) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, row := range c.cells {
		n += len(row)
	}
	return n
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	val := *v
	return &val
}

func copyInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	val := *v
	return &val
}

func floatPtrEqual(a, b *float64) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return *a == *b
	}
}

// Float is a small helper for building pointers in literals.
func Float(v float64) *float64 {
	return &v
}
