package matrix

import (
	"context"
	"testing"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCascadeResetsOnProvinciaChange(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	c := NewCascade(backend, 1)

	c.LoadProvincias(ctx)
	assert.Len(t, c.Provincias(), 2)

	c.SetProvincia(ctx, 9)
	c.SetCanton(ctx, 901)
	assert.Equal(t, []int64{90101, 90102}, c.SelectedIDs(), "canton auto-selects all parishes")

	c.SetProvincia(ctx, 17)
	assert.EqualValues(t, 17, c.ProvinciaID())
	assert.Zero(t, c.CantonID())
	assert.Empty(t, c.Parroquias())
	assert.Empty(t, c.SelectedIDs())
	assert.Len(t, c.Cantones(), 1)

	c.SetCanton(ctx, 1701)
	assert.Equal(t, []int64{170101}, c.SelectedIDs())
}

func TestCascadeCantonSwitchReselectsAll(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	backend.cantones[9] = append(backend.cantones[9], domain.Canton{ID: 907, ProvinciaID: 9, Nombre: "DURAN"})
	backend.parroquias[907] = []domain.Parroquia{
		{ID: 90701, CantonID: 907, Nombre: "ELOY ALFARO"},
		{ID: 90702, CantonID: 907, Nombre: "EL RECREO"},
		{ID: 90703, CantonID: 907, Nombre: "DIVINO NINO"},
	}
	c := NewCascade(backend, 1)

	c.SetProvincia(ctx, 9)
	c.SetCanton(ctx, 901)
	assert.Equal(t, []int64{90101, 90102}, c.SelectedIDs())

	c.SetCanton(ctx, 907)
	assert.EqualValues(t, 9, c.ProvinciaID())
	assert.EqualValues(t, 907, c.CantonID())
	assert.Len(t, c.Cantones(), 2)
	assert.Len(t, c.Parroquias(), 3)
	assert.Equal(t, []int64{90701, 90702, 90703}, c.SelectedIDs())
	for _, p := range c.SelectedParroquias() {
		assert.EqualValues(t, 907, p.CantonID)
	}
}

func TestCascadeFailedLookupEmptiesLevel(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	c := NewCascade(backend, 1)

	c.SetProvincia(ctx, 9)
	c.SetCanton(ctx, 901)

	c.SetCanton(ctx, 404)
	assert.EqualValues(t, 404, c.CantonID())
	assert.Empty(t, c.Parroquias())
	assert.Empty(t, c.SelectedParroquias())

	c.SetProvincia(ctx, 404)
	assert.Empty(t, c.Cantones())
}

func TestCascadeRequestsAreScopedToEmergency(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	c := NewCascade(backend, 3)

	c.LoadProvincias(ctx)
	c.SetProvincia(ctx, 9)
	c.SetCanton(ctx, 901)

	var paths []string
	for _, call := range backend.Calls() {
		paths = append(paths, call.Path)
	}
	assert.Equal(t, []string{
		"/provincias/emergencia/3",
		"/provincia/9/cantones/emergencia/3",
		"/canton/901/parroquias/emergencia/3",
	}, paths)
}
