package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
)

func (c *Controller) GetProvincias(ctx echo.Context) error {
	emergenciaID, err := paramID(ctx, "emergenciaId")
	if err != nil {
		return err
	}

	provincias, err := c.geography.ListProvincias(ctx.Request().Context(), emergenciaID)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, provincias)
}

func (c *Controller) GetCantones(ctx echo.Context) error {
	ids, err := paramIDs(ctx, "provinciaId", "emergenciaId")
	if err != nil {
		return err
	}

	cantones, err := c.geography.ListCantones(ctx.Request().Context(), ids[0], ids[1])
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, cantones)
}

func (c *Controller) GetParroquias(ctx echo.Context) error {
	ids, err := paramIDs(ctx, "cantonId", "emergenciaId")
	if err != nil {
		return err
	}

	parroquias, err := c.geography.ListParroquias(ctx.Request().Context(), ids[0], ids[1])
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, parroquias)
}

func (c *Controller) BackFillGeografia(ctx echo.Context) error {
	var req dto.BackfillGeografiaRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	resp, err := c.geography.BackfillDPA(ctx.Request().Context(), req.URL)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}
