package store

import (
	"testing"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRegistrosQuery(t *testing.T) {
	sql, args, err := listRegistrosQuery(ListRegistrosOpts{ParroquiaID: 11, EmergenciaID: 2, MesaGrupoID: 5}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM afectacion_variable_registros r JOIN afectacion_variables v on v.id = r.afectacion_variable_id")
	assert.Contains(t, sql, "$1")
	assert.NotContains(t, sql, "?")
	// sq.Eq sorts its keys
	assert.Equal(t, []interface{}{true, int64(2), int64(11), int64(5)}, args)
}

func TestUpsertRegistroQueryIsIdempotentPerCell(t *testing.T) {
	sql, args, err := upsertRegistroQuery(&domain.AfectacionVariableRegistro{
		AfectacionVariableID: 3, EmergenciaID: 1, ProvinciaID: 9, CantonID: 901, ParroquiaID: 90101,
		Cantidad: 5, Costo: 10, Activo: true, Creador: "coe",
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "on conflict (emergencia_id, parroquia_id, afectacion_variable_id)")
	assert.Contains(t, sql, "returning id")
	assert.Len(t, args, 9)
}

func TestListInfraCandidatesQueryPlaceholderOrder(t *testing.T) {
	sql, args, err := listInfraCandidatesQuery(ListInfraCandidatesOpts{EmergenciaID: 1, VariableID: 4, ParroquiaID: 77}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "r.emergencia_id = $1 and r.afectacion_variable_id = $2")
	assert.Contains(t, sql, "WHERE i.parroquia_id = $3")
	assert.Equal(t, []interface{}{int64(1), int64(4), int64(77)}, args)
}

func TestWrapErrPassesThroughUnknown(t *testing.T) {
	err := assert.AnError
	assert.Equal(t, err, wrapErr(err))
}
