package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"github.com/ougirez/coe-afectaciones/internal/pkg/utils"
	"github.com/spf13/viper"
)

func (svc *APIService) RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Request().Header.Get(constants.HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		ctx.Set(constants.CtxKeyRequestID, id)
		ctx.Response().Header().Set(constants.HeaderRequestID, id)

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.WithFields(req.Context(), constants.CtxKeyRequestID, id)))

		return next(ctx)
	}
}

func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		raw := ctx.Request().Header.Get(echo.HeaderAuthorization)
		if raw == "" {
			if cookie, err := ctx.Cookie(constants.CookieKeyAuthToken); err == nil {
				raw = "Bearer " + cookie.Value
			}
		}
		if raw == "" {
			return constants.ErrMissingAuthHeader
		}

		tokenString, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok {
			return constants.ErrUnauthorized
		}

		token, err := utils.ParseAuthToken(tokenString)
		if err != nil {
			return err
		}

		ctx.Set(constants.CtxKeyUserID, token.UserID)
		ctx.Set(constants.CtxKeyPrincipal, token)

		req := ctx.Request()
		ctx.SetRequest(req.WithContext(logger.WithFields(req.Context(), constants.CtxKeyUserID, token.UserID)))

		return next(ctx)
	}
}

// AdminMiddleware requires the token to carry the server secret as well.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token, ok := ctx.Get(constants.CtxKeyPrincipal).(*utils.AuthTokenWrapper)
		if !ok {
			return constants.ErrUnauthorized
		}

		if token.Secret != viper.GetString(constants.ViperSecretKey) {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
