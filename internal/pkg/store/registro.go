package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
)

type ListRegistrosOpts struct {
	ParroquiaID  int64
	EmergenciaID int64
	MesaGrupoID  int64
}

var registroColumns = []string{
	"r.id", "r.afectacion_variable_id", "r.emergencia_id", "r.provincia_id", "r.canton_id",
	"r.parroquia_id", "r.cantidad", "r.costo", "r.activo", "r.creador", "r.created_at", "r.updated_at",
}

func listRegistrosQuery(opts ListRegistrosOpts) sq.SelectBuilder {
	return builder().Select(registroColumns...).
		From(tableRegistros + " r").
		Join(tableVariables + " v on v.id = r.afectacion_variable_id").
		Where(sq.Eq{
			"r.parroquia_id":  opts.ParroquiaID,
			"r.emergencia_id": opts.EmergenciaID,
			"v.mesa_grupo_id": opts.MesaGrupoID,
			"r.activo":        true,
		}).
		OrderBy("r.afectacion_variable_id")
}

func (s *store) ListRegistros(ctx context.Context, opts ListRegistrosOpts) ([]*domain.AfectacionVariableRegistro, error) {
	var selected []*domain.AfectacionVariableRegistro
	if err := s.pool.Selectx(ctx, &selected, listRegistrosQuery(opts)); err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	return selected, nil
}

func upsertRegistroQuery(r *domain.AfectacionVariableRegistro) sq.InsertBuilder {
	return builder().Insert(tableRegistros).
		Columns("afectacion_variable_id", "emergencia_id", "provincia_id", "canton_id", "parroquia_id",
			"cantidad", "costo", "activo", "creador").
		Values(r.AfectacionVariableID, r.EmergenciaID, r.ProvinciaID, r.CantonID, r.ParroquiaID,
			r.Cantidad, r.Costo, r.Activo, r.Creador).
		Suffix(`
on conflict (emergencia_id, parroquia_id, afectacion_variable_id)
do update
set
	cantidad = excluded.cantidad,
	costo = excluded.costo,
	activo = excluded.activo,
	updated_at = now()
returning id`)
}

// UpsertRegistro creates the record for (emergencia, parroquia, variable), or
// overwrites it when a concurrent create already inserted it.
func (s *store) UpsertRegistro(ctx context.Context, r *domain.AfectacionVariableRegistro) (int64, error) {
	var id int64
	if err := s.pool.Getx(ctx, &id, upsertRegistroQuery(r)); err != nil {
		logger.Errorf(ctx, "upsert registro: %s", err.Error())
		return 0, fmt.Errorf("upsert registro: %w", wrapErr(err))
	}

	return id, nil
}

func (s *store) UpdateRegistro(ctx context.Context, id int64, cantidad, costo float64) error {
	query := builder().Update(tableRegistros).
		Set("cantidad", cantidad).
		Set("costo", costo).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	tag, err := s.pool.Execx(ctx, query)
	if err != nil {
		return fmt.Errorf("update registro %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}
