package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/coe-afectaciones/internal/domain"
)

var variableColumns = []string{"id", "mesa_grupo_id", "nombre", "requiere_costo", "requiere_gis", "created_at", "updated_at"}

func (s *store) ListVariablesByMesaGrupo(ctx context.Context, mesaGrupoID int64) ([]*domain.AfectacionVariable, error) {
	query := builder().Select(variableColumns...).
		From(tableVariables).
		Where(sq.Eq{"mesa_grupo_id": mesaGrupoID, "activo": true}).
		OrderBy("id")

	var selected []*domain.AfectacionVariable
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}
