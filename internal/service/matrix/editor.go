package matrix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ougirez/coe-afectaciones/internal/domain"
)

// CellStore is the narrow contract per-cell editors rely on.
type CellStore interface {
	Value(parroquiaID, variableID int64) (Cell, bool)
	Commit(parroquiaID, variableID int64, patch CellPatch) (Cell, error)
}

// CellEditor holds the transient input of one cell. Typing only changes local
// state; Blur and Enter are the only ways the value reaches the store, so a
// keystroke never touches the rest of the matrix.
type CellEditor struct {
	store       CellStore
	key         Key
	costEnabled bool

	cantidad *float64
	costo    *float64
	seen     Cell
}

func NewCellEditor(store CellStore, parroquiaID int64, variable domain.AfectacionVariable) *CellEditor {
	e := &CellEditor{
		store:       store,
		key:         Key{ParroquiaID: parroquiaID, VariableID: variable.ID},
		costEnabled: variable.RequiereCosto,
	}
	current, _ := store.Value(parroquiaID, variable.ID)
	e.load(current)
	return e
}

func (e *CellEditor) load(c Cell) {
	e.seen = c.clone()
	e.cantidad = copyFloat(c.Cantidad)
	e.costo = nil
	if e.costEnabled {
		e.costo = copyFloat(c.Costo)
	}
}

func (e *CellEditor) Key() Key {
	return e.key
}

// CostEnabled is false for variables that do not require a cost.
func (e *CellEditor) CostEnabled() bool {
	return e.costEnabled
}

func (e *CellEditor) Cantidad() *float64 {
	return copyFloat(e.cantidad)
}

func (e *CellEditor) Costo() *float64 {
	return copyFloat(e.costo)
}

func (e *CellEditor) SetCantidad(v *float64) {
	e.cantidad = copyFloat(v)
}

// SetCosto is a no-op while the cost field is disabled.
func (e *CellEditor) SetCosto(v *float64) {
	if !e.costEnabled {
		return
	}
	e.costo = copyFloat(v)
}

func (e *CellEditor) TypeCantidad(text string) error {
	v, err := ParseNumber(text)
	if err != nil {
		return fmt.Errorf("cantidad: %w", err)
	}
	e.SetCantidad(v)
	return nil
}

func (e *CellEditor) TypeCosto(text string) error {
	if !e.costEnabled {
		return nil
	}
	v, err := ParseNumber(text)
	if err != nil {
		return fmt.Errorf("costo: %w", err)
	}
	e.SetCosto(v)
	return nil
}

func (e *CellEditor) Blur() error {
	return e.commit()
}

func (e *CellEditor) Enter() error {
	return e.commit()
}

func (e *CellEditor) commit() error {
	costo := e.costo
	if !e.costEnabled {
		costo = nil
	}

	committed, err := e.store.Commit(e.key.ParroquiaID, e.key.VariableID, CellPatch{
		Cantidad: SetPtr(e.cantidad),
		Costo:    SetPtr(costo),
	})
	if err != nil {
		return err
	}
	e.seen = committed
	return nil
}

// Resync reloads the local input when the stored value of this cell changed
// behind the editor's back, e.g. after an existing-record load.
func (e *CellEditor) Resync() bool {
	current, _ := e.store.Value(e.key.ParroquiaID, e.key.VariableID)
	if current.sameContent(e.seen) {
		e.seen.ID = copyInt(current.ID)
		return false
	}
	e.load(current)
	return true
}

// ParseNumber reads a user-typed amount. Blank means no value; both "," and
// "." are accepted as decimal separator.
func ParseNumber(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	if v < 0 {
		return nil, fmt.Errorf("negative number %q", text)
	}
	return &v, nil
}
