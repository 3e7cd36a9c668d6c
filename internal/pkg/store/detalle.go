package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
)

type ListInfraCandidatesOpts struct {
	EmergenciaID int64
	VariableID   int64
	ParroquiaID  int64
}

func listInfraCandidatesQuery(opts ListInfraCandidatesOpts) sq.SelectBuilder {
	return builder().Select(
		"i.id as infraestructura_id",
		"i.nombre",
		"d.id is not null as registrada",
		"d.id as detalle_id").
		From(tableInfraestructuras+" i").
		LeftJoin(tableRegistros+" r on r.parroquia_id = i.parroquia_id and r.emergencia_id = ? and r.afectacion_variable_id = ?",
			opts.EmergenciaID, opts.VariableID).
		LeftJoin(tableDetalles + " d on d.afectacion_variable_registro_id = r.id and d.infraestructura_id = i.id and d.activo").
		Where(sq.Eq{"i.parroquia_id": opts.ParroquiaID}).
		OrderBy("i.nombre")
}

func (s *store) ListInfraCandidates(ctx context.Context, opts ListInfraCandidatesOpts) ([]*domain.InfraCandidate, error) {
	var selected []*domain.InfraCandidate
	if err := s.pool.Selectx(ctx, &selected, listInfraCandidatesQuery(opts)); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) InsertDetalle(ctx context.Context, d *domain.AfectacionVariableRegistroDetalle) (int64, error) {
	query := builder().Insert(tableDetalles).
		Columns("afectacion_variable_registro_id", "infraestructura_id", "costo", "activo", "creador").
		Values(d.AfectacionVariableRegistroID, d.InfraestructuraID, d.Costo, d.Activo, d.Creador).
		Suffix(`
on conflict (afectacion_variable_registro_id, infraestructura_id)
do update set activo = excluded.activo, costo = excluded.costo, updated_at = now()
returning id`)

	var id int64
	if err := s.pool.Getx(ctx, &id, query); err != nil {
		return 0, fmt.Errorf("insert detalle: %w", wrapErr(err))
	}

	return id, nil
}

func (s *store) DeleteDetalle(ctx context.Context, id int64) error {
	tag, err := s.pool.Execx(ctx, builder().Delete(tableDetalles).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("delete detalle %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}
