package matrix

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
)

var errBoom = errors.New("boom")

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeBackend answers from in-memory fixtures and records every request.
type fakeBackend struct {
	mu    sync.Mutex
	calls []call

	provincias []domain.Provincia
	cantones   map[int64][]domain.Canton
	parroquias map[int64][]domain.Parroquia
	variables  []domain.AfectacionVariable
	registros  map[int64][]dto.RegistroRow

	failRegistros map[int64]bool
	failCreate    map[Key]bool
	failUpdate    map[int64]bool
	failVariables bool

	// blocks ListRegistros until closed when set
	gate chan struct{}
	// runs before each create; a non-nil error fails it
	beforeCreate func(dto.CreateRegistroRequest) error

	nextID int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		provincias: []domain.Provincia{{ID: 9, Nombre: "GUAYAS"}, {ID: 17, Nombre: "PICHINCHA"}},
		cantones: map[int64][]domain.Canton{
			9:  {{ID: 901, ProvinciaID: 9, Nombre: "GUAYAQUIL"}},
			17: {{ID: 1701, ProvinciaID: 17, Nombre: "QUITO"}},
		},
		parroquias: map[int64][]domain.Parroquia{
			901:  {{ID: 90101, CantonID: 901, Nombre: "TARQUI"}, {ID: 90102, CantonID: 901, Nombre: "XIMENA"}},
			1701: {{ID: 170101, CantonID: 1701, Nombre: "BELISARIO"}},
		},
		variables: []domain.AfectacionVariable{
			{ID: 1, Nombre: "Viviendas", RequiereCosto: true},
			{ID: 2, Nombre: "Personas", RequiereCosto: false},
		},
		registros:     map[int64][]dto.RegistroRow{},
		failRegistros: map[int64]bool{},
		failCreate:    map[Key]bool{},
		failUpdate:    map[int64]bool{},
		nextID:        500,
	}
}

func (f *fakeBackend) record(method, path string, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
}

func (f *fakeBackend) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeBackend) callsTo(method string) []call {
	var out []call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeBackend) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeBackend) ListProvincias(_ context.Context, emergenciaID int64) ([]domain.Provincia, error) {
	f.record("GET", fmt.Sprintf("/provincias/emergencia/%d", emergenciaID), nil)
	return f.provincias, nil
}

func (f *fakeBackend) ListCantones(_ context.Context, provinciaID, emergenciaID int64) ([]domain.Canton, error) {
	f.record("GET", fmt.Sprintf("/provincia/%d/cantones/emergencia/%d", provinciaID, emergenciaID), nil)
	cantones, ok := f.cantones[provinciaID]
	if !ok {
		return nil, errBoom
	}
	return cantones, nil
}

func (f *fakeBackend) ListParroquias(_ context.Context, cantonID, emergenciaID int64) ([]domain.Parroquia, error) {
	f.record("GET", fmt.Sprintf("/canton/%d/parroquias/emergencia/%d", cantonID, emergenciaID), nil)
	parroquias, ok := f.parroquias[cantonID]
	if !ok {
		return nil, errBoom
	}
	return parroquias, nil
}

func (f *fakeBackend) ListVariables(_ context.Context, mesaGrupoID int64) ([]domain.AfectacionVariable, error) {
	f.record("GET", fmt.Sprintf("/mesa_grupo/%d/afectacion_varibles/", mesaGrupoID), nil)
	if f.failVariables {
		return nil, errBoom
	}
	return f.variables, nil
}

func (f *fakeBackend) ListRegistros(ctx context.Context, parroquiaID, emergenciaID, mesaGrupoID int64) ([]dto.RegistroRow, error) {
	f.record("GET", fmt.Sprintf("/afectacion_variable_registros/parroquia/%d/emergencia/%d/mesa_grupo/%d", parroquiaID, emergenciaID, mesaGrupoID), nil)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRegistros[parroquiaID] {
		return nil, errBoom
	}
	return f.registros[parroquiaID], nil
}

func (f *fakeBackend) UpdateRegistro(_ context.Context, id int64, req dto.UpdateRegistroRequest) error {
	f.record("PUT", fmt.Sprintf("/afectacion_variable_registros/%d", id), req)
	if f.failUpdate[id] {
		return errBoom
	}
	return nil
}

func (f *fakeBackend) CreateRegistro(_ context.Context, req dto.CreateRegistroRequest) (int64, error) {
	f.record("POST", "/afectacion_variable_registros", req)
	if f.beforeCreate != nil {
		if err := f.beforeCreate(req); err != nil {
			return 0, err
		}
	}
	if f.failCreate[Key{ParroquiaID: req.ParroquiaID, VariableID: req.AfectacionVariableID}] {
		return 0, errBoom
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return f.nextID, nil
}

func int64Ptr(v int64) *int64 {
	return &v
}
