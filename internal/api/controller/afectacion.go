package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store"
)

func (c *Controller) GetVariables(ctx echo.Context) error {
	mesaGrupoID, err := paramID(ctx, "mesaGrupoId")
	if err != nil {
		return err
	}

	variables, err := c.afectacion.ListVariables(ctx.Request().Context(), mesaGrupoID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, variables)
}

func (c *Controller) GetRegistros(ctx echo.Context) error {
	ids, err := paramIDs(ctx, "parroquiaId", "emergenciaId", "mesaGrupoId")
	if err != nil {
		return err
	}

	rows, err := c.afectacion.ListRegistros(ctx.Request().Context(), store.ListRegistrosOpts{
		ParroquiaID:  ids[0],
		EmergenciaID: ids[1],
		MesaGrupoID:  ids[2],
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rows)
}

func (c *Controller) CreateRegistro(ctx echo.Context) error {
	var req dto.CreateRegistroRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}
	req.Creador = creador(ctx, req.Creador)

	resp, err := c.afectacion.CreateRegistro(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, resp)
}

func (c *Controller) UpdateRegistro(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateRegistroRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return err
	}

	if err = c.afectacion.UpdateRegistro(ctx.Request().Context(), id, &req); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dto.CreatedResponse{ID: id})
}

func (c *Controller) GetInfraCandidates(ctx echo.Context) error {
	ids, err := paramIDs(ctx, "emergenciaId", "variableId", "parroquiaId")
	if err != nil {
		return err
	}

	rows, err := c.afectacion.ListInfraCandidates(ctx.Request().Context(), store.ListInfraCandidatesOpts{
		EmergenciaID: ids[0],
		VariableID:   ids[1],
		ParroquiaID:  ids[2],
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, rows)
}

func (c *Controller) CreateDetalle(ctx echo.Context) error {
	var req dto.CreateDetalleRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}
	req.Creador = creador(ctx, req.Creador)

	resp, err := c.afectacion.CreateDetalle(ctx.Request().Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, resp)
}

func (c *Controller) DeleteDetalle(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err = c.afectacion.DeleteDetalle(ctx.Request().Context(), id); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}
