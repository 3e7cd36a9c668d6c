package coeclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
)

// ErrMissingID is returned when a create succeeded but the answer carried no id.
var ErrMissingID = errors.New("response without id")

func (c *Client) ListProvincias(ctx context.Context, emergenciaID int64) ([]domain.Provincia, error) {
	var out []domain.Provincia
	if err := c.get(ctx, fmt.Sprintf("/provincias/emergencia/%d", emergenciaID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCantones(ctx context.Context, provinciaID, emergenciaID int64) ([]domain.Canton, error) {
	var out []domain.Canton
	if err := c.get(ctx, fmt.Sprintf("/provincia/%d/cantones/emergencia/%d", provinciaID, emergenciaID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListParroquias(ctx context.Context, cantonID, emergenciaID int64) ([]domain.Parroquia, error) {
	var out []domain.Parroquia
	if err := c.get(ctx, fmt.Sprintf("/canton/%d/parroquias/emergencia/%d", cantonID, emergenciaID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListVariables(ctx context.Context, mesaGrupoID int64) ([]domain.AfectacionVariable, error) {
	var out []domain.AfectacionVariable
	if err := c.get(ctx, fmt.Sprintf("/mesa_grupo/%d/afectacion_varibles/", mesaGrupoID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListRegistros(ctx context.Context, parroquiaID, emergenciaID, mesaGrupoID int64) ([]dto.RegistroRow, error) {
	var out []dto.RegistroRow
	path := fmt.Sprintf("/afectacion_variable_registros/parroquia/%d/emergencia/%d/mesa_grupo/%d", parroquiaID, emergenciaID, mesaGrupoID)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateRegistro(ctx context.Context, id int64, req dto.UpdateRegistroRequest) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/afectacion_variable_registros/%d", id), req, nil)
}

func (c *Client) CreateRegistro(ctx context.Context, req dto.CreateRegistroRequest) (int64, error) {
	var out dto.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/afectacion_variable_registros", req, &out); err != nil {
		return 0, err
	}
	if out.ID == 0 {
		return 0, ErrMissingID
	}
	return out.ID, nil
}

func (c *Client) ListInfraCandidates(ctx context.Context, emergenciaID, variableID, parroquiaID int64) ([]dto.InfraCandidateRow, error) {
	var out []dto.InfraCandidateRow
	path := fmt.Sprintf("/afectacion_variable_registro_detalles/emergencia/%d/variable/%d/parroquia/%d", emergenciaID, variableID, parroquiaID)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDetalle(ctx context.Context, req dto.CreateDetalleRequest) (int64, error) {
	var out dto.CreatedResponse
	if err := c.do(ctx, http.MethodPost, "/afectacion_variable_registro_detalles", req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) DeleteDetalle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/afectacion_variable_registro_detalles/%d", id), nil, nil)
}
