package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/utils"
	"github.com/ougirez/coe-afectaciones/internal/service/afectacion"
	"github.com/ougirez/coe-afectaciones/internal/service/geography"
)

type Controller struct {
	geography  *geography.Service
	afectacion *afectacion.Service
}

func NewController(geography *geography.Service, afectacion *afectacion.Service) *Controller {
	return &Controller{geography: geography, afectacion: afectacion}
}

func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func paramID(ctx echo.Context, name string) (int64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, constants.NewCodedError(fmt.Sprintf("invalid %s: %q", name, raw), http.StatusBadRequest)
	}
	return id, nil
}

func paramIDs(ctx echo.Context, names ...string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := paramID(ctx, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// creador falls back to the authenticated user when the body leaves it empty.
func creador(ctx echo.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if token, ok := ctx.Get(constants.CtxKeyPrincipal).(*utils.AuthTokenWrapper); ok {
		if token.Username != "" {
			return token.Username
		}
		return strconv.FormatInt(token.UserID, 10)
	}
	return ""
}

func bindAndValidate(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return err
	}
	return ctx.Validate(req)
}
