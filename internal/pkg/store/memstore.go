package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
)

type registroKey struct {
	emergenciaID, parroquiaID, variableID int64
}

type detalleKey struct {
	registroID, infraID int64
}

// MemStore is an in-memory Store used when no database.url is configured and
// by end-to-end tests. It mirrors the postgres semantics, including the
// create-is-upsert rule for records.
type MemStore struct {
	mu sync.RWMutex

	provincias  map[int64]*domain.Provincia
	cantones    map[int64]*domain.Canton
	parroquias  map[int64]*domain.Parroquia
	emergencias map[int64]map[int64]struct{} // emergencia -> parroquias
	variables   map[int64]*domain.AfectacionVariable
	infra       map[int64]*domain.Infraestructura

	registros      map[int64]*domain.AfectacionVariableRegistro
	registrosByKey map[registroKey]int64
	detalles       map[int64]*domain.AfectacionVariableRegistroDetalle
	detallesByKey  map[detalleKey]int64

	nextID int64
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		provincias:     make(map[int64]*domain.Provincia),
		cantones:       make(map[int64]*domain.Canton),
		parroquias:     make(map[int64]*domain.Parroquia),
		emergencias:    make(map[int64]map[int64]struct{}),
		variables:      make(map[int64]*domain.AfectacionVariable),
		infra:          make(map[int64]*domain.Infraestructura),
		registros:      make(map[int64]*domain.AfectacionVariableRegistro),
		registrosByKey: make(map[registroKey]int64),
		detalles:       make(map[int64]*domain.AfectacionVariableRegistroDetalle),
		detallesByKey:  make(map[detalleKey]int64),
		nextID:         1000,
	}
}

// Seeding helpers.

func (m *MemStore) AddEmergenciaParroquias(emergenciaID int64, parroquiaIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.emergencias[emergenciaID]
	if !ok {
		set = make(map[int64]struct{})
		m.emergencias[emergenciaID] = set
	}
	for _, id := range parroquiaIDs {
		set[id] = struct{}{}
	}
}

func (m *MemStore) AddVariable(v domain.AfectacionVariable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variables[v.ID] = &v
}

func (m *MemStore) AddInfraestructura(i domain.Infraestructura) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infra[i.ID] = &i
}

// Registros returns a copy of every stored record, ordered by id.
func (m *MemStore) Registros() []domain.AfectacionVariableRegistro {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.AfectacionVariableRegistro, 0, len(m.registros))
	for _, r := range m.registros {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MemStore) inEmergencia(emergenciaID, parroquiaID int64) bool {
	_, ok := m.emergencias[emergenciaID][parroquiaID]
	return ok
}

func (m *MemStore) ListProvinciasByEmergencia(_ context.Context, emergenciaID int64) ([]*domain.Provincia, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[int64]struct{})
	out := make([]*domain.Provincia, 0)
	for pid := range m.emergencias[emergenciaID] {
		pa, ok := m.parroquias[pid]
		if !ok {
			continue
		}
		if _, dup := seen[pa.ProvinciaID]; dup {
			continue
		}
		if p, ok := m.provincias[pa.ProvinciaID]; ok {
			seen[p.ID] = struct{}{}
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *MemStore) ListCantonesByProvincia(_ context.Context, provinciaID, emergenciaID int64) ([]*domain.Canton, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[int64]struct{})
	out := make([]*domain.Canton, 0)
	for pid := range m.emergencias[emergenciaID] {
		pa, ok := m.parroquias[pid]
		if !ok || pa.ProvinciaID != provinciaID {
			continue
		}
		if _, dup := seen[pa.CantonID]; dup {
			continue
		}
		if c, ok := m.cantones[pa.CantonID]; ok {
			seen[c.ID] = struct{}{}
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *MemStore) ListParroquiasByCanton(_ context.Context, cantonID, emergenciaID int64) ([]*domain.Parroquia, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Parroquia, 0)
	for _, pa := range m.parroquias {
		if pa.CantonID == cantonID && m.inEmergencia(emergenciaID, pa.ID) {
			cp := *pa
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *MemStore) UpsertDPA(_ context.Context, rows []dto.DPARow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, r := range rows {
		m.provincias[r.ProvinciaID] = &domain.Provincia{ID: r.ProvinciaID, Nombre: r.ProvinciaNombre, UpdatedAt: now}
		m.cantones[r.CantonID] = &domain.Canton{ID: r.CantonID, ProvinciaID: r.ProvinciaID, Nombre: r.CantonNombre, UpdatedAt: now}
		m.parroquias[r.ParroquiaID] = &domain.Parroquia{
			ID: r.ParroquiaID, CantonID: r.CantonID, ProvinciaID: r.ProvinciaID, Nombre: r.ParroquiaNombre, UpdatedAt: now,
		}
	}
	return nil
}

func (m *MemStore) ListVariablesByMesaGrupo(_ context.Context, mesaGrupoID int64) ([]*domain.AfectacionVariable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.AfectacionVariable, 0)
	for _, v := range m.variables {
		if v.MesaGrupoID == mesaGrupoID {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) ListRegistros(_ context.Context, opts ListRegistrosOpts) ([]*domain.AfectacionVariableRegistro, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.AfectacionVariableRegistro, 0)
	for _, r := range m.registros {
		v, ok := m.variables[r.AfectacionVariableID]
		if !ok || v.MesaGrupoID != opts.MesaGrupoID {
			continue
		}
		if r.ParroquiaID == opts.ParroquiaID && r.EmergenciaID == opts.EmergenciaID && r.Activo {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AfectacionVariableID < out[j].AfectacionVariableID })
	return out, nil
}

func (m *MemStore) UpsertRegistro(_ context.Context, r *domain.AfectacionVariableRegistro) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := registroKey{r.EmergenciaID, r.ParroquiaID, r.AfectacionVariableID}
	now := time.Now()
	if id, ok := m.registrosByKey[key]; ok {
		existing := m.registros[id]
		existing.Cantidad, existing.Costo, existing.Activo, existing.UpdatedAt = r.Cantidad, r.Costo, r.Activo, now
		return id, nil
	}

	cp := *r
	cp.ID = m.id()
	cp.CreatedAt, cp.UpdatedAt = now, now
	m.registros[cp.ID] = &cp
	m.registrosByKey[key] = cp.ID
	return cp.ID, nil
}

func (m *MemStore) UpdateRegistro(_ context.Context, id int64, cantidad, costo float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.registros[id]
	if !ok {
		return constants.ErrDBNotFound
	}
	r.Cantidad, r.Costo, r.UpdatedAt = cantidad, costo, time.Now()
	return nil
}

func (m *MemStore) ListInfraCandidates(_ context.Context, opts ListInfraCandidatesOpts) ([]*domain.InfraCandidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	registroID, hasRegistro := m.registrosByKey[registroKey{opts.EmergenciaID, opts.ParroquiaID, opts.VariableID}]

	out := make([]*domain.InfraCandidate, 0)
	for _, i := range m.infra {
		if i.ParroquiaID != opts.ParroquiaID {
			continue
		}
		c := &domain.InfraCandidate{InfraestructuraID: i.ID, Nombre: i.Nombre}
		if hasRegistro {
			if did, ok := m.detallesByKey[detalleKey{registroID, i.ID}]; ok && m.detalles[did].Activo {
				id := did
				c.Registrada, c.DetalleID = true, &id
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (m *MemStore) InsertDetalle(_ context.Context, d *domain.AfectacionVariableRegistroDetalle) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.registros[d.AfectacionVariableRegistroID]; !ok {
		return 0, constants.ErrDBNotFound
	}

	key := detalleKey{d.AfectacionVariableRegistroID, d.InfraestructuraID}
	if id, ok := m.detallesByKey[key]; ok {
		existing := m.detalles[id]
		existing.Activo, existing.Costo, existing.UpdatedAt = d.Activo, d.Costo, time.Now()
		return id, nil
	}

	cp := *d
	cp.ID = m.id()
	m.detalles[cp.ID] = &cp
	m.detallesByKey[key] = cp.ID
	return cp.ID, nil
}

func (m *MemStore) DeleteDetalle(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.detalles[id]
	if !ok {
		return constants.ErrDBNotFound
	}
	delete(m.detallesByKey, detalleKey{d.AfectacionVariableRegistroID, d.InfraestructuraID})
	delete(m.detalles, id)
	return nil
}
