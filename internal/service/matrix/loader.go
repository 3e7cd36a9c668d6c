package matrix

import (
	"context"

	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type parroquiaRegistros struct {
	parroquiaID int64
	rows        []dto.RegistroRow
}

// fetchRegistros asks for the records of every parish in parallel. A failed
// parish yields no rows and does not affect the others.
func fetchRegistros(ctx context.Context, backend Backend, parroquiaIDs []int64, emergenciaID, mesaGrupoID int64, limit int) []parroquiaRegistros {
	results := make([]parroquiaRegistros, len(parroquiaIDs))

	var eg errgroup.Group
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, parroquiaID := range parroquiaIDs {
		eg.Go(func() error {
			rows, err := backend.ListRegistros(ctx, parroquiaID, emergenciaID, mesaGrupoID)
			if err != nil {
				logger.Warnf(ctx, "list registros, parroquia-%d: %s", parroquiaID, err.Error())
				rows = nil
			}
			results[i] = parroquiaRegistros{parroquiaID: parroquiaID, rows: rows}
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// mergeRegistros folds loaded rows into the matrix and reports whether any
// parish already had records. costGate reports whether a variable carries a
// cost; costs of variables without one are dropped.
func mergeRegistros(cells *Cells, results []parroquiaRegistros, costGate func(variableID int64) bool) bool {
	hasExisting := false
	for _, res := range results {
		if len(res.rows) > 0 {
			hasExisting = true
		}
		for _, row := range res.rows {
			costo := row.Costo
			if !costGate(row.AfectacionVariableID) {
				costo = nil
			}
			cells.Merge(Key{ParroquiaID: res.parroquiaID, VariableID: row.AfectacionVariableID},
				row.Cantidad, costo, row.AfectacionVariableRegistroID)
		}
	}
	return hasExisting
}
