package matrix

import (
	"context"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
)

// GeographyBackend serves the selector cascade.
type GeographyBackend interface {
	ListProvincias(ctx context.Context, emergenciaID int64) ([]domain.Provincia, error)
	ListCantones(ctx context.Context, provinciaID, emergenciaID int64) ([]domain.Canton, error)
	ListParroquias(ctx context.Context, cantonID, emergenciaID int64) ([]domain.Parroquia, error)
}

// Backend is everything the editor needs from the COE REST API.
// *coeclient.Client implements it.
type Backend interface {
	GeographyBackend

	ListVariables(ctx context.Context, mesaGrupoID int64) ([]domain.AfectacionVariable, error)
	ListRegistros(ctx context.Context, parroquiaID, emergenciaID, mesaGrupoID int64) ([]dto.RegistroRow, error)
	UpdateRegistro(ctx context.Context, id int64, req dto.UpdateRegistroRequest) error
	CreateRegistro(ctx context.Context, req dto.CreateRegistroRequest) (int64, error)
}
