package store

import (
	"context"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

type Store interface {
	GeographyStore
	VariableStore
	RegistroStore
	DetalleStore
}

type GeographyStore interface {
	ListProvinciasByEmergencia(ctx context.Context, emergenciaID int64) ([]*domain.Provincia, error)
	ListCantonesByProvincia(ctx context.Context, provinciaID, emergenciaID int64) ([]*domain.Canton, error)
	ListParroquiasByCanton(ctx context.Context, cantonID, emergenciaID int64) ([]*domain.Parroquia, error)
	UpsertDPA(ctx context.Context, rows []dto.DPARow) error
}

type VariableStore interface {
	ListVariablesByMesaGrupo(ctx context.Context, mesaGrupoID int64) ([]*domain.AfectacionVariable, error)
}

type RegistroStore interface {
	ListRegistros(ctx context.Context, opts ListRegistrosOpts) ([]*domain.AfectacionVariableRegistro, error)
	UpsertRegistro(ctx context.Context, registro *domain.AfectacionVariableRegistro) (int64, error)
	UpdateRegistro(ctx context.Context, id int64, cantidad, costo float64) error
}

type DetalleStore interface {
	ListInfraCandidates(ctx context.Context, opts ListInfraCandidatesOpts) ([]*domain.InfraCandidate, error)
	InsertDetalle(ctx context.Context, detalle *domain.AfectacionVariableRegistroDetalle) (int64, error)
	DeleteDetalle(ctx context.Context, id int64) error
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
