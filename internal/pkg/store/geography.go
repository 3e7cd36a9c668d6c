package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
)

var (
	provinciaColumns = []string{"p.id", "p.nombre", "p.created_at", "p.updated_at"}
	cantonColumns    = []string{"c.id", "c.provincia_id", "c.nombre", "c.created_at", "c.updated_at"}
	parroquiaColumns = []string{"pa.id", "pa.canton_id", "pa.provincia_id", "pa.nombre", "pa.created_at", "pa.updated_at"}
)

// Only parishes linked to the emergency are visible, and provinces/cantons
// are derived from them.

func (s *store) ListProvinciasByEmergencia(ctx context.Context, emergenciaID int64) ([]*domain.Provincia, error) {
	query := builder().Select(provinciaColumns...).
		Distinct().
		From(tableProvincias + " p").
		Join(tableParroquias + " pa on pa.provincia_id = p.id").
		Join(tableEmergenciaParroquias + " ep on ep.parroquia_id = pa.id").
		Where(sq.Eq{"ep.emergencia_id": emergenciaID}).
		OrderBy("p.nombre")

	var selected []*domain.Provincia
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListCantonesByProvincia(ctx context.Context, provinciaID, emergenciaID int64) ([]*domain.Canton, error) {
	query := builder().Select(cantonColumns...).
		Distinct().
		From(tableCantones + " c").
		Join(tableParroquias + " pa on pa.canton_id = c.id").
		Join(tableEmergenciaParroquias + " ep on ep.parroquia_id = pa.id").
		Where(sq.Eq{"c.provincia_id": provinciaID, "ep.emergencia_id": emergenciaID}).
		OrderBy("c.nombre")

	var selected []*domain.Canton
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) ListParroquiasByCanton(ctx context.Context, cantonID, emergenciaID int64) ([]*domain.Parroquia, error) {
	query := builder().Select(parroquiaColumns...).
		From(tableParroquias + " pa").
		Join(tableEmergenciaParroquias + " ep on ep.parroquia_id = pa.id").
		Where(sq.Eq{"pa.canton_id": cantonID, "ep.emergencia_id": emergenciaID}).
		OrderBy("pa.nombre")

	var selected []*domain.Parroquia
	if err := s.pool.Selectx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

func (s *store) UpsertDPA(ctx context.Context, rows []dto.DPARow) error {
	if len(rows) == 0 {
		return nil
	}

	provincias := builder().Insert(tableProvincias).Columns("id", "nombre")
	cantones := builder().Insert(tableCantones).Columns("id", "provincia_id", "nombre")
	parroquias := builder().Insert(tableParroquias).Columns("id", "canton_id", "provincia_id", "nombre")

	seenProvincias := make(map[int64]struct{})
	seenCantones := make(map[int64]struct{})
	seenParroquias := make(map[int64]struct{})
	for _, r := range rows {
		if _, ok := seenProvincias[r.ProvinciaID]; !ok {
			seenProvincias[r.ProvinciaID] = struct{}{}
			provincias = provincias.Values(r.ProvinciaID, r.ProvinciaNombre)
		}
		if _, ok := seenCantones[r.CantonID]; !ok {
			seenCantones[r.CantonID] = struct{}{}
			cantones = cantones.Values(r.CantonID, r.ProvinciaID, r.CantonNombre)
		}
		if _, ok := seenParroquias[r.ParroquiaID]; !ok {
			seenParroquias[r.ParroquiaID] = struct{}{}
			parroquias = parroquias.Values(r.ParroquiaID, r.CantonID, r.ProvinciaID, r.ParroquiaNombre)
		}
	}

	steps := []struct {
		name  string
		query sq.InsertBuilder
	}{
		{"provincias", provincias.Suffix("on conflict (id) do update set nombre = excluded.nombre, updated_at = now()")},
		{"cantones", cantones.Suffix("on conflict (id) do update set nombre = excluded.nombre, provincia_id = excluded.provincia_id, updated_at = now()")},
		{"parroquias", parroquias.Suffix(`on conflict (id) do update
set
	nombre = excluded.nombre,
	canton_id = excluded.canton_id,
	provincia_id = excluded.provincia_id,
	updated_at = now()`)},
	}

	for _, step := range steps {
		if _, err := s.pool.Execx(ctx, step.query); err != nil {
			logger.Errorf(ctx, "upsert %s: %s", step.name, err.Error())
			return fmt.Errorf("upsert %s: %w", step.name, err)
		}
	}

	return nil
}
