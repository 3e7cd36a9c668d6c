package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return constants.NewCodedError(err.Error(), http.StatusBadRequest)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed on %s", fe.Field(), fe.Tag()))
	}
	return constants.NewCodedError(strings.Join(msgs, "; "), http.StatusBadRequest)
}

// Binder binds path params with echo's default binder and decodes JSON bodies
// with sonic.
type Binder struct {
	def *echo.DefaultBinder
}

func NewBinder() *Binder {
	return &Binder{def: new(echo.DefaultBinder)}
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.def.BindPathParams(c, i); err != nil {
		return constants.NewCodedError(err.Error(), http.StatusBadRequest)
	}

	req := c.Request()
	if req.ContentLength == 0 || req.Body == nil {
		return nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return constants.NewCodedError(err.Error(), http.StatusBadRequest)
	}
	if len(body) == 0 {
		return nil
	}

	if err = sonic.Unmarshal(body, i); err != nil {
		return constants.NewCodedError(fmt.Sprintf("invalid json: %s", err.Error()), http.StatusBadRequest)
	}

	return nil
}
