package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store"
	"github.com/ougirez/coe-afectaciones/internal/pkg/utils"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type testEnv struct {
	handler http.Handler
	store   *store.MemStore
	token   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	viper.Set(constants.ViperSecretKey, testSecret)
	t.Cleanup(func() { viper.Set(constants.ViperSecretKey, "") })

	m := store.NewMemStore()
	require.NoError(t, m.UpsertDPA(context.Background(), []dto.DPARow{
		{ProvinciaID: 9, ProvinciaNombre: "GUAYAS", CantonID: 901, CantonNombre: "GUAYAQUIL", ParroquiaID: 90101, ParroquiaNombre: "AYACUCHO"},
		{ProvinciaID: 9, ProvinciaNombre: "GUAYAS", CantonID: 901, CantonNombre: "GUAYAQUIL", ParroquiaID: 90102, ParroquiaNombre: "BOLIVAR"},
	}))
	m.AddEmergenciaParroquias(1, 90101, 90102)
	m.AddVariable(domain.AfectacionVariable{ID: 1, MesaGrupoID: 5, Nombre: "Viviendas", RequiereCosto: true})
	m.AddInfraestructura(domain.Infraestructura{ID: 71, ParroquiaID: 90101, Nombre: "Escuela"})

	svc, err := NewAPIService(m, nil)
	require.NoError(t, err)

	token, err := utils.GenerateAuthTokenWithSecret(&utils.AuthTokenWrapper{UserID: 4, Username: "operador"}, testSecret, time.Hour)
	require.NoError(t, err)

	return &testEnv{handler: svc.Handler(), store: m, token: token}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(constants.HeaderRequestID))
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	rec := env.do(t, http.MethodGet, APIPrefix+"/provincias/emergencia/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	env.token = "garbage"
	rec = env.do(t, http.MethodGet, APIPrefix+"/provincias/emergencia/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGeographyCascadeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, APIPrefix+"/provincias/emergencia/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":9,"nombre":"GUAYAS"}]`, rec.Body.String())

	rec = env.do(t, http.MethodGet, APIPrefix+"/provincia/9/cantones/emergencia/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":901,"provincia_id":9,"nombre":"GUAYAQUIL"}]`, rec.Body.String())

	rec = env.do(t, http.MethodGet, APIPrefix+"/canton/901/parroquias/emergencia/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var parroquias []domain.Parroquia
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parroquias))
	assert.Len(t, parroquias, 2)

	rec = env.do(t, http.MethodGet, APIPrefix+"/canton/abc/parroquias/emergencia/1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVariablesTrailingSlash(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/mesa_grupo/5/afectacion_varibles/", "/mesa_grupo/5/afectacion_varibles"} {
		rec := env.do(t, http.MethodGet, APIPrefix+path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[{"id":1,"mesa_grupo_id":5,"nombre":"Viviendas","requiere_costo":true,"requiere_gis":false}]`, rec.Body.String())
	}
}

func TestRegistroLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, APIPrefix+"/afectacion_variable_registros", `{
		"activo": true, "afectacion_variable_id": 1, "cantidad": 5, "canton_id": 901,
		"costo": 10, "creador": "", "emergencia_id": 1, "parroquia_id": 90101, "provincia_id": 9}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created dto.CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	stored := env.store.Registros()
	require.Len(t, stored, 1)
	assert.Equal(t, "operador", stored[0].Creador)

	rec = env.do(t, http.MethodPut, APIPrefix+"/afectacion_variable_registros/"+itoa(created.ID), `{"cantidad":7,"costo":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, APIPrefix+"/afectacion_variable_registros/parroquia/90101/emergencia/1/mesa_grupo/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []dto.RegistroRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, *rows[0].AfectacionVariableRegistroID)
	assert.EqualValues(t, 7, *rows[0].Cantidad)
	assert.EqualValues(t, 4, *rows[0].Costo)

	rec = env.do(t, http.MethodPut, APIPrefix+"/afectacion_variable_registros/424242", `{"cantidad":1,"costo":0}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRegistroValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, APIPrefix+"/afectacion_variable_registros", `{"afectacion_variable_id": 1, "cantidad": -1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ParroquiaID")

	rec = env.do(t, http.MethodPost, APIPrefix+"/afectacion_variable_registros", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetalleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	regID, err := env.store.UpsertRegistro(context.Background(), &domain.AfectacionVariableRegistro{
		AfectacionVariableID: 1, EmergenciaID: 1, ParroquiaID: 90101, Activo: true,
	})
	require.NoError(t, err)

	const candidatesPath = APIPrefix + "/afectacion_variable_registro_detalles/emergencia/1/variable/1/parroquia/90101"
	rec := env.do(t, http.MethodGet, candidatesPath, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"infraestructura_id":71,"nombre":"Escuela","registrada":false,"afectacion_variable_registro_detalle_id":null}]`, rec.Body.String())

	rec = env.do(t, http.MethodPost, APIPrefix+"/afectacion_variable_registro_detalles",
		`{"activo":true,"afectacion_variable_registro_id":`+itoa(regID)+`,"costo":0,"creador":"x","infraestructura_id":71}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created dto.CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(t, http.MethodGet, candidatesPath, "")
	var rows []dto.InfraCandidateRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Registrada)
	assert.Equal(t, created.ID, *rows[0].AfectacionVariableRegistroDetalleID)

	rec = env.do(t, http.MethodDelete, APIPrefix+"/afectacion_variable_registro_detalles/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, APIPrefix+"/afectacion_variable_registro_detalles/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackfillRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, APIPrefix+"/geografia/backfill", `{"url":"http://example.invalid/dpa"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin, err := utils.GenerateAuthTokenWithSecret(&utils.AuthTokenWrapper{UserID: 1, Secret: testSecret}, testSecret, time.Hour)
	require.NoError(t, err)
	env.token = admin

	rec = env.do(t, http.MethodPost, APIPrefix+"/geografia/backfill", `{"url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(constants.HeaderRequestID, "6f1d7e0c-6a43-4c4b-9d0c-0c1f4a9e3b11")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "6f1d7e0c-6a43-4c4b-9d0c-0c1f4a9e3b11", rec.Header().Get(constants.HeaderRequestID))
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
