package geography

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeographyStore struct {
	upserted []dto.DPARow
}

func (f *fakeGeographyStore) ListProvinciasByEmergencia(context.Context, int64) ([]*domain.Provincia, error) {
	return []*domain.Provincia{{ID: 9, Nombre: "GUAYAS"}}, nil
}

func (f *fakeGeographyStore) ListCantonesByProvincia(context.Context, int64, int64) ([]*domain.Canton, error) {
	return nil, fmt.Errorf("boom")
}

func (f *fakeGeographyStore) ListParroquiasByCanton(context.Context, int64, int64) ([]*domain.Parroquia, error) {
	return nil, nil
}

func (f *fakeGeographyStore) UpsertDPA(_ context.Context, rows []dto.DPARow) error {
	f.upserted = append(f.upserted, rows...)
	return nil
}

const indexPage = `<html><body>
<table class="dpa-provincias"><tbody>
<tr><td class="codigo">9</td><td><a href="/dpa/9">GUAYAS</a></td></tr>
<tr><td class="codigo">13</td><td><a href="13">MANABI</a></td></tr>
<tr><td>sin codigo</td></tr>
</tbody></table></body></html>`

const guayasPage = `<table class="dpa-parroquias"><tbody>
<tr><td>901</td><td>GUAYAQUIL</td><td>90101</td><td>AYACUCHO</td></tr>
<tr><td>901</td><td>GUAYAQUIL</td><td>90102</td><td>BOLIVAR</td></tr>
<tr><td>header row</td></tr>
</tbody></table>`

const manabiPage = `<table class="dpa-parroquias"><tbody>
<tr><td>1301</td><td>PORTOVIEJO</td><td>130101</td><td>PORTOVIEJO</td></tr>
</tbody></table>`

func TestBackfillDPA(t *testing.T) {
	var manabiHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/dpa/index", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, indexPage) })
	mux.HandleFunc("/dpa/9", func(w http.ResponseWriter, _ *http.Request) { fmt.Fprint(w, guayasPage) })
	mux.HandleFunc("/dpa/13", func(w http.ResponseWriter, _ *http.Request) {
		// first hit fails, the retry succeeds
		if atomic.AddInt32(&manabiHits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, manabiPage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := &fakeGeographyStore{}
	svc := NewService(st, srv.Client())
	svc.retryInterval = time.Millisecond

	resp, err := svc.BackfillDPA(context.Background(), srv.URL+"/dpa/index")
	require.NoError(t, err)

	assert.Equal(t, &dto.BackfillGeografiaResponse{Provincias: 2, Cantones: 2, Parroquias: 3}, resp)
	assert.EqualValues(t, 2, atomic.LoadInt32(&manabiHits))

	require.Len(t, st.upserted, 3)
	sort.Slice(st.upserted, func(i, j int) bool { return st.upserted[i].ParroquiaID < st.upserted[j].ParroquiaID })
	assert.Equal(t, dto.DPARow{
		ProvinciaID: 9, ProvinciaNombre: "GUAYAS",
		CantonID: 901, CantonNombre: "GUAYAQUIL",
		ParroquiaID: 90101, ParroquiaNombre: "AYACUCHO",
	}, st.upserted[0])
	assert.Equal(t, "MANABI", st.upserted[2].ProvinciaNombre)
}

func TestBackfillDPABadCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<table class="dpa-provincias"><tbody><tr><td class="codigo">9</td><td><a href="/p">X</a></td></tr></tbody></table>`)
	})
	mux.HandleFunc("/p", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<table class="dpa-parroquias"><tbody><tr><td>abc</td><td>C</td><td>1</td><td>P</td></tr></tbody></table>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	st := &fakeGeographyStore{}
	_, err := NewService(st, srv.Client()).BackfillDPA(context.Background(), srv.URL+"/index")
	require.Error(t, err)
	assert.Empty(t, st.upserted)
}

func TestListCantonesWrapsStoreError(t *testing.T) {
	_, err := NewService(&fakeGeographyStore{}, nil).ListCantones(context.Background(), 9, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.ListCantonesByProvincia")
}
