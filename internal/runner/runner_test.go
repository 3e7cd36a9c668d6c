package runner

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/ougirez/coe-afectaciones/internal/api"
	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/coeclient"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/store"
	"github.com/ougirez/coe-afectaciones/internal/pkg/utils"
	"github.com/ougirez/coe-afectaciones/internal/service/infra"
	"github.com/ougirez/coe-afectaciones/internal/service/matrix"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "runner-secret"

type env struct {
	store  *store.MemStore
	client *coeclient.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()
	color.NoColor = true
	viper.Set(constants.ViperSecretKey, testSecret)
	t.Cleanup(func() { viper.Set(constants.ViperSecretKey, "") })

	m := store.NewMemStore()
	require.NoError(t, m.UpsertDPA(context.Background(), []dto.DPARow{
		{ProvinciaID: 9, ProvinciaNombre: "GUAYAS", CantonID: 901, CantonNombre: "GUAYAQUIL", ParroquiaID: 90101, ParroquiaNombre: "TARQUI"},
		{ProvinciaID: 9, ProvinciaNombre: "GUAYAS", CantonID: 901, CantonNombre: "GUAYAQUIL", ParroquiaID: 90102, ParroquiaNombre: "XIMENA"},
	}))
	m.AddEmergenciaParroquias(1, 90101, 90102)
	m.AddVariable(domain.AfectacionVariable{ID: 1, MesaGrupoID: 5, Nombre: "Viviendas", RequiereCosto: true})
	m.AddVariable(domain.AfectacionVariable{ID: 2, MesaGrupoID: 5, Nombre: "Personas"})
	m.AddInfraestructura(domain.Infraestructura{ID: 71, ParroquiaID: 90101, Nombre: "Escuela"})
	m.AddInfraestructura(domain.Infraestructura{ID: 72, ParroquiaID: 90101, Nombre: "Puente"})

	svc, err := api.NewAPIService(m, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(svc.Handler())
	t.Cleanup(srv.Close)

	token, err := utils.GenerateAuthTokenWithSecret(&utils.AuthTokenWrapper{UserID: 4, Username: "operador"}, testSecret, time.Hour)
	require.NoError(t, err)

	client := coeclient.New(srv.URL+api.APIPrefix, &coeclient.AuthDoer{Doer: srv.Client(), Token: token},
		coeclient.WithRetries(0, time.Millisecond))
	return &env{store: m, client: client}
}

func (e *env) session(t *testing.T) *matrix.Session {
	t.Helper()
	s := matrix.NewSession(e.client, matrix.Config{
		EmergenciaID:       1,
		MesaGrupoID:        5,
		Creador:            "operador",
		DefaultProvinciaID: 9,
		DefaultCantonID:    901,
		MaxInFlight:        4,
	})
	t.Cleanup(s.Close)
	return s
}

func str(s string) *string {
	return &s
}

func TestReadEdits(t *testing.T) {
	edits, err := ReadEdits(strings.NewReader(`
edits:
  - parroquia_id: 90101
    variable_id: 1
    cantidad: 5
    costo: "10,5"
  - parroquia_id: 90102
    variable_id: 2
    cantidad: ""
`))
	require.NoError(t, err)
	require.Len(t, edits, 2)
	assert.Equal(t, "5", *edits[0].Cantidad)
	assert.Equal(t, "10,5", *edits[0].Costo)
	assert.Equal(t, "", *edits[1].Cantidad)
	assert.Nil(t, edits[1].Costo)

	edits, err = ReadEdits(strings.NewReader(`{"edits":[{"parroquia_id":1,"variable_id":2,"cantidad":"3"}]}`))
	require.NoError(t, err)
	assert.Len(t, edits, 1)

	_, err = ReadEdits(strings.NewReader("edits:\n  - parish: 1\n"))
	assert.Error(t, err)

	edits, err = ReadEdits(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestApplyCreatesThenUpdates(t *testing.T) {
	e := newEnv(t)
	var out bytes.Buffer

	a := &Apply{
		Session: e.session(t),
		Edits: []Edit{
			{ParroquiaID: 90101, VariableID: 1, Cantidad: str("5"), Costo: str("10")},
			{ParroquiaID: 90102, VariableID: 2, Cantidad: str("3"), Costo: str("99")},
		},
		Out: &out,
	}
	require.NoError(t, a.Do(context.Background()))
	assert.Contains(t, out.String(), "Afectaciones registradas correctamente")

	registros := e.store.Registros()
	require.Len(t, registros, 2)
	for _, r := range registros {
		if r.AfectacionVariableID == 2 {
			assert.Zero(t, r.Costo, "cost-less variable stores 0")
		}
	}

	out.Reset()
	a = &Apply{
		Session: e.session(t),
		Edits:   []Edit{{ParroquiaID: 90101, VariableID: 1, Costo: str("4")}},
		JSON:    true,
		Out:     &out,
	}
	require.NoError(t, a.Do(context.Background()))
	assert.Contains(t, out.String(), `"message": "Afectaciones actualizadas correctamente"`)
	assert.Contains(t, out.String(), `"op": "update"`)
	assert.Contains(t, out.String(), `"unchanged": 1`)
	assert.Len(t, e.store.Registros(), 2)
}

func TestApplyDryRunSendsNothing(t *testing.T) {
	e := newEnv(t)
	var out bytes.Buffer

	a := &Apply{
		Session: e.session(t),
		Edits:   []Edit{{ParroquiaID: 90101, VariableID: 1, Cantidad: str("5")}},
		DryRun:  true,
		Out:     &out,
	}
	require.NoError(t, a.Do(context.Background()))
	assert.Contains(t, out.String(), "create")
	assert.Empty(t, e.store.Registros())
}

func TestApplyRejectsBadEdits(t *testing.T) {
	e := newEnv(t)

	a := &Apply{Session: e.session(t), Edits: []Edit{{ParroquiaID: 1, VariableID: 1}}, Out: &bytes.Buffer{}}
	assert.ErrorContains(t, a.Do(context.Background()), "not in the selected canton")

	a = &Apply{Session: e.session(t), Edits: []Edit{{ParroquiaID: 90101, VariableID: 42}}, Out: &bytes.Buffer{}}
	assert.ErrorContains(t, a.Do(context.Background()), "unknown variable 42")

	a = &Apply{Session: e.session(t), Edits: []Edit{{ParroquiaID: 90101, VariableID: 1, Cantidad: str("-2")}}, Out: &bytes.Buffer{}}
	assert.ErrorContains(t, a.Do(context.Background()), "negative")
}

func TestGridPrintsTotals(t *testing.T) {
	e := newEnv(t)
	a := &Apply{
		Session: e.session(t),
		Edits: []Edit{
			{ParroquiaID: 90101, VariableID: 1, Cantidad: str("2")},
			{ParroquiaID: 90102, VariableID: 1, Cantidad: str("3")},
		},
		Out: &bytes.Buffer{},
	}
	require.NoError(t, a.Do(context.Background()))

	var out bytes.Buffer
	g := &Grid{Session: e.session(t), Out: &out}
	require.NoError(t, g.Do(context.Background()))

	text := out.String()
	assert.Contains(t, text, "TARQUI")
	assert.Contains(t, text, "XIMENA")
	assert.Regexp(t, `Total\s+5`, text)
}

func TestInfraRequiresSavedCell(t *testing.T) {
	e := newEnv(t)
	s := e.session(t)
	var out bytes.Buffer

	r := &Infra{
		Session:     s,
		Editor:      infra.NewEditor(e.client, s, infra.Config{EmergenciaID: 1, Creador: "operador"}),
		ParroquiaID: 90101,
		VariableID:  1,
		Out:         &out,
	}
	assert.ErrorIs(t, r.List(context.Background()), constants.ErrRecordRequired)
	assert.Contains(t, out.String(), "guarde la matriz")
}

func TestInfraSetAndList(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, (&Apply{
		Session: e.session(t),
		Edits:   []Edit{{ParroquiaID: 90101, VariableID: 1, Cantidad: str("1")}},
		Out:     &bytes.Buffer{},
	}).Do(context.Background()))

	s := e.session(t)
	var out bytes.Buffer
	r := &Infra{
		Session:     s,
		Editor:      infra.NewEditor(e.client, s, infra.Config{EmergenciaID: 1, Creador: "operador"}),
		ParroquiaID: 90101,
		VariableID:  1,
		Check:       []int64{71},
		Costos:      map[int64]float64{71: 120},
		Out:         &out,
	}
	require.NoError(t, r.Set(context.Background()))
	assert.Contains(t, out.String(), "Infraestructura actualizada correctamente")
	assert.Contains(t, out.String(), "[x]")

	s = e.session(t)
	out.Reset()
	r = &Infra{
		Session:     s,
		Editor:      infra.NewEditor(e.client, s, infra.Config{EmergenciaID: 1}),
		ParroquiaID: 90101,
		VariableID:  1,
		Uncheck:     []int64{71},
		Out:         &out,
	}
	require.NoError(t, r.Set(context.Background()))
	assert.NotContains(t, out.String(), "[x]")
}
