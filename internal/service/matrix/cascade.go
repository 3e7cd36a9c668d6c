package matrix

import (
	"context"
	"sync"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
)

// Cascade resolves provincia -> canton -> parroquias. Choosing a canton
// selects every parish of it. A failed lookup empties its level and every
// level below it.
type Cascade struct {
	backend      GeographyBackend
	emergenciaID int64

	mu          sync.RWMutex
	provincias  []domain.Provincia
	provinciaID int64
	cantones    []domain.Canton
	cantonID    int64
	parroquias  []domain.Parroquia
	selected    map[int64]struct{}

	// bumped on every change so that late answers for an old choice are dropped
	provinciaGen uint64
	cantonGen    uint64
}

func NewCascade(backend GeographyBackend, emergenciaID int64) *Cascade {
	return &Cascade{
		backend:      backend,
		emergenciaID: emergenciaID,
		selected:     make(map[int64]struct{}),
	}
}

func (c *Cascade) LoadProvincias(ctx context.Context) {
	provincias, err := c.backend.ListProvincias(ctx, c.emergenciaID)
	if err != nil {
		logger.Warnf(ctx, "list provincias, emergencia-%d: %s", c.emergenciaID, err.Error())
		provincias = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.provincias = provincias
}

// SetProvincia clears the canton, the parish options and the selection, then
// loads the cantons of the province.
func (c *Cascade) SetProvincia(ctx context.Context, provinciaID int64) {
	c.mu.Lock()
	c.provinciaID = provinciaID
	c.cantonID = 0
	c.cantones = nil
	c.clearParroquiasLocked()
	c.provinciaGen++
	c.cantonGen++
	gen := c.provinciaGen
	c.mu.Unlock()

	if provinciaID == 0 {
		return
	}

	cantones, err := c.backend.ListCantones(ctx, provinciaID, c.emergenciaID)
	if err != nil {
		logger.Warnf(ctx, "list cantones, provincia-%d: %s", provinciaID, err.Error())
		cantones = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.provinciaGen {
		return
	}
	c.cantones = cantones
}

// SetCanton replaces the parish options and selects all of them.
func (c *Cascade) SetCanton(ctx context.Context, cantonID int64) {
	c.mu.Lock()
	c.cantonID = cantonID
	c.clearParroquiasLocked()
	c.cantonGen++
	gen := c.cantonGen
	c.mu.Unlock()

	if cantonID == 0 {
		return
	}

	parroquias, err := c.backend.ListParroquias(ctx, cantonID, c.emergenciaID)
	if err != nil {
		logger.Warnf(ctx, "list parroquias, canton-%d: %s", cantonID, err.Error())
		parroquias = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.cantonGen {
		return
	}
	c.parroquias = parroquias
	for _, p := range parroquias {
		c.selected[p.ID] = struct{}{}
	}
}

func (c *Cascade) clearParroquiasLocked() {
	c.parroquias = nil
	c.selected = make(map[int64]struct{})
}

func (c *Cascade) ProvinciaID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provinciaID
}

func (c *Cascade) CantonID() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cantonID
}

func (c *Cascade) Provincias() []domain.Provincia {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Provincia(nil), c.provincias...)
}

func (c *Cascade) Cantones() []domain.Canton {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Canton(nil), c.cantones...)
}

func (c *Cascade) Parroquias() []domain.Parroquia {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Parroquia(nil), c.parroquias...)
}

// SelectedParroquias is the option list filtered by the selection, in option
// order.
func (c *Cascade) SelectedParroquias() []domain.Parroquia {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Parroquia, 0, len(c.selected))
	for _, p := range c.parroquias {
		if _, ok := c.selected[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (c *Cascade) SelectedIDs() []int64 {
	selected := c.SelectedParroquias()
	ids := make([]int64, 0, len(selected))
	for _, p := range selected {
		ids = append(ids, p.ID)
	}
	return ids
}
