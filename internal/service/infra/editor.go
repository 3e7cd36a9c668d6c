package infra

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type State int

const (
	StateIdle State = iota
	// the cell has no stored record yet
	StateBlocked
	StateLoading
	StateReady
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBlocked:
		return "blocked"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Backend interface {
	ListInfraCandidates(ctx context.Context, emergenciaID, variableID, parroquiaID int64) ([]dto.InfraCandidateRow, error)
	CreateDetalle(ctx context.Context, req dto.CreateDetalleRequest) (int64, error)
	DeleteDetalle(ctx context.Context, id int64) error
}

// RecordResolver maps a matrix cell to its stored record id.
// *matrix.Session implements it.
type RecordResolver interface {
	RecordID(parroquiaID, variableID int64) (int64, bool)
}

type Config struct {
	EmergenciaID int64
	Creador      string
	MaxInFlight  int
}

// Item is one checklist row as the user currently sees it.
type Item struct {
	InfraestructuraID int64
	Nombre            string
	Registrada        bool
	DetalleID         *int64
	Checked           bool
	Costo             float64
}

// Editor manages the infrastructure checklist of one matrix cell.
//
//	Idle -> Blocked                 no record id for the cell
//	Idle -> Loading -> Ready        candidates fetched
//	Ready -> Saving -> Loading -> Ready
//
// Registrada flags are never flipped locally; every save ends with a reload.
type Editor struct {
	backend Backend
	records RecordResolver
	cfg     Config

	mu          sync.Mutex
	state       State
	parroquiaID int64
	variableID  int64
	recordID    int64
	rows        []dto.InfraCandidateRow
	checked     map[int64]bool
	costs       map[int64]float64
}

func NewEditor(backend Backend, records RecordResolver, cfg Config) *Editor {
	return &Editor{
		backend: backend,
		records: records,
		cfg:     cfg,
		checked: make(map[int64]bool),
		costs:   make(map[int64]float64),
	}
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Open binds the editor to a cell. A cell that was never saved blocks the
// editor and no request is made.
func (e *Editor) Open(ctx context.Context, parroquiaID, variableID int64) error {
	e.mu.Lock()
	if e.state == StateLoading || e.state == StateSaving {
		e.mu.Unlock()
		return fmt.Errorf("open in state %s: %w", e.state, constants.ErrInvalidTransition)
	}

	e.parroquiaID, e.variableID = parroquiaID, variableID
	e.rows = nil
	e.checked = make(map[int64]bool)
	e.costs = make(map[int64]float64)

	recordID, ok := e.records.RecordID(parroquiaID, variableID)
	if !ok {
		e.recordID = 0
		e.state = StateBlocked
		e.mu.Unlock()
		return constants.ErrRecordRequired
	}
	e.recordID = recordID
	e.state = StateLoading
	e.mu.Unlock()

	return e.reload(ctx, parroquiaID, variableID)
}

func (e *Editor) reload(ctx context.Context, parroquiaID, variableID int64) error {
	rows, err := e.backend.ListInfraCandidates(ctx, e.cfg.EmergenciaID, variableID, parroquiaID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.rows = nil
		e.checked = make(map[int64]bool)
		e.state = StateIdle
		return fmt.Errorf("list infraestructura candidates: %w", err)
	}

	e.rows = rows
	e.checked = make(map[int64]bool, len(rows))
	for _, r := range rows {
		e.checked[r.InfraestructuraID] = r.Registrada
	}
	e.state = StateReady
	return nil
}

func (e *Editor) rowLocked(infraestructuraID int64) (dto.InfraCandidateRow, bool) {
	for _, r := range e.rows {
		if r.InfraestructuraID == infraestructuraID {
			return r, true
		}
	}
	return dto.InfraCandidateRow{}, false
}

func (e *Editor) Toggle(infraestructuraID int64, checked bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return fmt.Errorf("toggle in state %s: %w", e.state, constants.ErrInvalidTransition)
	}
	if _, ok := e.rowLocked(infraestructuraID); !ok {
		return fmt.Errorf("infraestructura-%d: %w", infraestructuraID, constants.ErrDBNotFound)
	}
	e.checked[infraestructuraID] = checked
	return nil
}

// SetCosto sets the cost sent when the item is newly registered.
func (e *Editor) SetCosto(infraestructuraID int64, costo float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return fmt.Errorf("set costo in state %s: %w", e.state, constants.ErrInvalidTransition)
	}
	if _, ok := e.rowLocked(infraestructuraID); !ok {
		return fmt.Errorf("infraestructura-%d: %w", infraestructuraID, constants.ErrDBNotFound)
	}
	if costo < 0 {
		return fmt.Errorf("negative costo: %w", constants.ErrBadRequest)
	}
	e.costs[infraestructuraID] = costo
	return nil
}

func (e *Editor) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]Item, 0, len(e.rows))
	for _, r := range e.rows {
		var detalleID *int64
		if r.AfectacionVariableRegistroDetalleID != nil {
			id := *r.AfectacionVariableRegistroDetalleID
			detalleID = &id
		}
		items = append(items, Item{
			InfraestructuraID: r.InfraestructuraID,
			Nombre:            r.Nombre,
			Registrada:        r.Registrada,
			DetalleID:         detalleID,
			Checked:           e.checked[r.InfraestructuraID],
			Costo:             e.costs[r.InfraestructuraID],
		})
	}
	return items
}

type Change struct {
	InfraestructuraID int64
	Op                Op
	// detail to delete, or cost to send on create
	DetalleID int64
	Costo     float64
}

// Plan diffs the checked set against the server's registrada flags.
// Registered rows without a detail id cannot be deleted and are left alone.
func (e *Editor) Plan() ([]Change, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady {
		return nil, fmt.Errorf("plan in state %s: %w", e.state, constants.ErrInvalidTransition)
	}
	return e.planLocked(), nil
}

func (e *Editor) planLocked() []Change {
	var changes []Change
	for _, r := range e.rows {
		checked := e.checked[r.InfraestructuraID]
		switch {
		case checked && !r.Registrada:
			changes = append(changes, Change{
				InfraestructuraID: r.InfraestructuraID,
				Op:                OpCreate,
				Costo:             e.costs[r.InfraestructuraID],
			})
		case !checked && r.Registrada && r.AfectacionVariableRegistroDetalleID != nil:
			changes = append(changes, Change{
				InfraestructuraID: r.InfraestructuraID,
				Op:                OpDelete,
				DetalleID:         *r.AfectacionVariableRegistroDetalleID,
			})
		}
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].InfraestructuraID < changes[j].InfraestructuraID
	})
	return changes
}

// Save sends every create and delete concurrently, then reloads the
// candidates. The report reflects the writes; a failed reload is returned as
// the error. A failed reload, including one cut short by a cancelled ctx,
// leaves the editor Idle and it needs a fresh Open.
func (e *Editor) Save(ctx context.Context) (*Report, error) {
	e.mu.Lock()
	if e.state != StateReady {
		e.mu.Unlock()
		return nil, fmt.Errorf("save in state %s: %w", e.state, constants.ErrInvalidTransition)
	}
	changes := e.planLocked()
	recordID := e.recordID
	parroquiaID, variableID := e.parroquiaID, e.variableID
	e.state = StateSaving
	e.mu.Unlock()

	outcomes := make([]Outcome, len(changes))

	var eg errgroup.Group
	if e.cfg.MaxInFlight > 0 {
		eg.SetLimit(e.cfg.MaxInFlight)
	}
	for i, ch := range changes {
		eg.Go(func() error {
			outcomes[i] = e.apply(ctx, recordID, ch)
			return nil
		})
	}
	_ = eg.Wait()

	for _, o := range outcomes {
		if o.Err != nil {
			logger.Warnf(ctx, "%s detalle infraestructura-%d: %s", o.Op, o.InfraestructuraID, o.Err.Error())
		}
	}

	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()

	report := &Report{Outcomes: outcomes}
	if err := e.reload(ctx, parroquiaID, variableID); err != nil {
		return report, err
	}
	return report, nil
}

func (e *Editor) apply(ctx context.Context, recordID int64, ch Change) Outcome {
	out := Outcome{InfraestructuraID: ch.InfraestructuraID, Op: ch.Op}

	switch ch.Op {
	case OpDelete:
		out.DetalleID = ch.DetalleID
		out.Err = e.backend.DeleteDetalle(ctx, ch.DetalleID)
	default:
		out.DetalleID, out.Err = e.backend.CreateDetalle(ctx, dto.CreateDetalleRequest{
			Activo:                       true,
			AfectacionVariableRegistroID: recordID,
			Costo:                        ch.Costo,
			Creador:                      e.cfg.Creador,
			InfraestructuraID:            ch.InfraestructuraID,
		})
	}
	return out
}

// Close returns the editor to Idle and forgets the cell.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = StateIdle
	e.rows = nil
	e.recordID = 0
	e.checked = make(map[int64]bool)
	e.costs = make(map[int64]float64)
}
