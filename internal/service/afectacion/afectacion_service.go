package afectacion

import (
	"context"
	"fmt"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store"
)

type Store interface {
	store.VariableStore
	store.RegistroStore
	store.DetalleStore
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListVariables(ctx context.Context, mesaGrupoID int64) ([]*domain.AfectacionVariable, error) {
	variables, err := s.store.ListVariablesByMesaGrupo(ctx, mesaGrupoID)
	if err != nil {
		return nil, fmt.Errorf("store.ListVariablesByMesaGrupo: %w", err)
	}
	return variables, nil
}

func (s *Service) ListRegistros(ctx context.Context, opts store.ListRegistrosOpts) ([]dto.RegistroRow, error) {
	registros, err := s.store.ListRegistros(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListRegistros: %w", err)
	}

	rows := make([]dto.RegistroRow, 0, len(registros))
	for _, r := range registros {
		id, cantidad, costo := r.ID, r.Cantidad, r.Costo
		rows = append(rows, dto.RegistroRow{
			AfectacionVariableRegistroID: &id,
			AfectacionVariableID:         r.AfectacionVariableID,
			Cantidad:                     &cantidad,
			Costo:                        &costo,
		})
	}

	return rows, nil
}

func (s *Service) CreateRegistro(ctx context.Context, req *dto.CreateRegistroRequest) (*dto.CreatedResponse, error) {
	id, err := s.store.UpsertRegistro(ctx, &domain.AfectacionVariableRegistro{
		AfectacionVariableID: req.AfectacionVariableID,
		EmergenciaID:         req.EmergenciaID,
		ProvinciaID:          req.ProvinciaID,
		CantonID:             req.CantonID,
		ParroquiaID:          req.ParroquiaID,
		Cantidad:             req.Cantidad,
		Costo:                req.Costo,
		Activo:               req.Activo,
		Creador:              req.Creador,
	})
	if err != nil {
		return nil, fmt.Errorf("store.UpsertRegistro: %w", err)
	}

	logger.Debugf(ctx, "registro %d: parroquia-%d variable-%d", id, req.ParroquiaID, req.AfectacionVariableID)
	return &dto.CreatedResponse{ID: id}, nil
}

func (s *Service) UpdateRegistro(ctx context.Context, id int64, req *dto.UpdateRegistroRequest) error {
	if err := s.store.UpdateRegistro(ctx, id, req.Cantidad, req.Costo); err != nil {
		return fmt.Errorf("store.UpdateRegistro: %w", err)
	}
	return nil
}

func (s *Service) ListInfraCandidates(ctx context.Context, opts store.ListInfraCandidatesOpts) ([]dto.InfraCandidateRow, error) {
	candidates, err := s.store.ListInfraCandidates(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("store.ListInfraCandidates: %w", err)
	}

	rows := make([]dto.InfraCandidateRow, 0, len(candidates))
	for _, c := range candidates {
		row := dto.InfraCandidateRow{
			InfraestructuraID: c.InfraestructuraID,
			Nombre:            c.Nombre,
			Registrada:        c.Registrada,
		}
		if c.Registrada && c.DetalleID != nil {
			id := *c.DetalleID
			row.AfectacionVariableRegistroDetalleID = &id
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *Service) CreateDetalle(ctx context.Context, req *dto.CreateDetalleRequest) (*dto.CreatedResponse, error) {
	id, err := s.store.InsertDetalle(ctx, &domain.AfectacionVariableRegistroDetalle{
		AfectacionVariableRegistroID: req.AfectacionVariableRegistroID,
		InfraestructuraID:            req.InfraestructuraID,
		Costo:                        req.Costo,
		Activo:                       req.Activo,
		Creador:                      req.Creador,
	})
	if err != nil {
		return nil, fmt.Errorf("store.InsertDetalle: %w", err)
	}
	return &dto.CreatedResponse{ID: id}, nil
}

func (s *Service) DeleteDetalle(ctx context.Context, id int64) error {
	if err := s.store.DeleteDetalle(ctx, id); err != nil {
		return fmt.Errorf("store.DeleteDetalle: %w", err)
	}
	return nil
}
