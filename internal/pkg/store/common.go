package store

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
)

const (
	tableProvincias           = "provincias"
	tableCantones             = "cantones"
	tableParroquias           = "parroquias"
	tableEmergenciaParroquias = "emergencia_parroquias"
	tableVariables            = "afectacion_variables"
	tableRegistros            = "afectacion_variable_registros"
	tableInfraestructuras     = "infraestructuras"
	tableDetalles             = "afectacion_variable_registro_detalles"
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel builder with postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
