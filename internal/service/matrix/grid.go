package matrix

import (
	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/shopspring/decimal"
)

type GridRow struct {
	Parroquia domain.Parroquia
	Cells     []Cell
}

// Grid is a read-only snapshot of the matrix for the current selection.
// Totals are summed per variable over the selected parishes.
type Grid struct {
	Variables     []domain.AfectacionVariable
	Rows          []GridRow
	TotalCantidad []decimal.Decimal
	TotalCosto    []decimal.Decimal
}

func (s *Session) Grid() Grid {
	variables := s.Variables()
	parroquias := s.Cascade.SelectedParroquias()

	g := Grid{
		Variables:     variables,
		Rows:          make([]GridRow, 0, len(parroquias)),
		TotalCantidad: make([]decimal.Decimal, len(variables)),
		TotalCosto:    make([]decimal.Decimal, len(variables)),
	}

	for _, p := range parroquias {
		row := GridRow{Parroquia: p, Cells: make([]Cell, len(variables))}
		for i, v := range variables {
			cell, _ := s.cells.Value(p.ID, v.ID)
			row.Cells[i] = cell
			if cell.Cantidad != nil {
				g.TotalCantidad[i] = g.TotalCantidad[i].Add(decimal.NewFromFloat(*cell.Cantidad))
			}
			if cell.Costo != nil {
				g.TotalCosto[i] = g.TotalCosto[i].Add(decimal.NewFromFloat(*cell.Costo))
			}
		}
		g.Rows = append(g.Rows, row)
	}

	for i := range variables {
		g.TotalCantidad[i] = g.TotalCantidad[i].Round(2)
		g.TotalCosto[i] = g.TotalCosto[i].Round(2)
	}

	return g
}
