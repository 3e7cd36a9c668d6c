package matrix

import (
	"context"
	"sync"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
)

type Config struct {
	EmergenciaID int64
	MesaGrupoID  int64
	Creador      string

	// seed the selectors, usually from the user's own jurisdiction
	DefaultProvinciaID int64
	DefaultCantonID    int64

	// 0 means no cap
	MaxInFlight int
	// re-send every non-empty cell on save, even when unchanged
	ResendUnchanged bool
}

// Session owns the state of one visit to the affectation matrix: the
// selector cascade, the variable catalog, the cell store and the save
// coordinator. Nothing outlives it. After Close every pending completion is
// dropped instead of writing into the discarded state.
type Session struct {
	cfg     Config
	backend Backend

	Cascade *Cascade
	cells   *Cells
	saver   *SaveCoordinator

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.RWMutex
	variables   []domain.AfectacionVariable
	hasExisting bool
	loadGen     uint64
	loadedFor   []int64
}

func NewSession(backend Backend, cfg Config) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	cells := NewCells()

	return &Session{
		cfg:     cfg,
		backend: backend,
		Cascade: NewCascade(backend, cfg.EmergenciaID),
		cells:   cells,
		saver:   NewSaveCoordinator(backend, cells, cfg.MaxInFlight, cfg.ResendUnchanged),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *Session) Config() Config {
	return s.cfg
}

// Close discards the session. In-flight requests are cancelled.
func (s *Session) Close() {
	s.cancel()
}

func (s *Session) closed() bool {
	return s.ctx.Err() != nil
}

// opContext is cancelled when either parent is done or the session closes.
func (s *Session) opContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Open loads the catalog, the default geography and the existing records.
func (s *Session) Open(ctx context.Context) error {
	if s.closed() {
		return constants.ErrSessionClosed
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	s.LoadVariables(ctx)
	s.Cascade.LoadProvincias(ctx)

	if s.cfg.DefaultProvinciaID != 0 {
		return s.selectGeography(ctx, s.cfg.DefaultProvinciaID, s.cfg.DefaultCantonID)
	}
	return nil
}

// LoadVariables fetches the matrix columns; a failure leaves no columns.
func (s *Session) LoadVariables(ctx context.Context) {
	variables, err := s.backend.ListVariables(ctx, s.cfg.MesaGrupoID)
	if err != nil {
		logger.Warnf(ctx, "list variables, mesa_grupo-%d: %s", s.cfg.MesaGrupoID, err.Error())
		variables = nil
	}
	if s.closed() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.variables = variables
}

func (s *Session) SetProvincia(ctx context.Context, provinciaID int64) error {
	if s.closed() {
		return constants.ErrSessionClosed
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	s.Cascade.SetProvincia(ctx, provinciaID)
	return s.reloadIfSelectionChanged(ctx)
}

func (s *Session) SetCanton(ctx context.Context, cantonID int64) error {
	if s.closed() {
		return constants.ErrSessionClosed
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	s.Cascade.SetCanton(ctx, cantonID)
	return s.reloadIfSelectionChanged(ctx)
}

func (s *Session) selectGeography(ctx context.Context, provinciaID, cantonID int64) error {
	s.Cascade.SetProvincia(ctx, provinciaID)
	if cantonID != 0 {
		s.Cascade.SetCanton(ctx, cantonID)
	}
	return s.reloadIfSelectionChanged(ctx)
}

func (s *Session) reloadIfSelectionChanged(ctx context.Context) error {
	ids := s.Cascade.SelectedIDs()

	s.mu.RLock()
	same := equalIDs(ids, s.loadedFor)
	s.mu.RUnlock()
	if same {
		return nil
	}

	return s.loadExisting(ctx, ids)
}

// LoadExisting merges the stored records of the current selection into the
// matrix.
func (s *Session) LoadExisting(ctx context.Context) error {
	if s.closed() {
		return constants.ErrSessionClosed
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	return s.loadExisting(ctx, s.Cascade.SelectedIDs())
}

func (s *Session) loadExisting(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	s.loadedFor = append([]int64(nil), ids...)
	s.mu.Unlock()

	if len(ids) == 0 {
		s.mu.Lock()
		s.hasExisting = false
		s.mu.Unlock()
		return nil
	}

	results := fetchRegistros(ctx, s.backend, ids, s.cfg.EmergenciaID, s.cfg.MesaGrupoID, s.cfg.MaxInFlight)

	if s.closed() {
		return constants.ErrSessionClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		// the selection moved on while we were loading
		return nil
	}
	s.hasExisting = mergeRegistros(s.cells, results, s.requiresCostLocked)
	return nil
}

func (s *Session) requiresCostLocked(variableID int64) bool {
	for _, v := range s.variables {
		if v.ID == variableID {
			return v.RequiereCosto
		}
	}
	// unknown column: keep what the server sent
	return true
}

func (s *Session) Variables() []domain.AfectacionVariable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AfectacionVariable(nil), s.variables...)
}

func (s *Session) Variable(id int64) (domain.AfectacionVariable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.variables {
		if v.ID == id {
			return v, true
		}
	}
	return domain.AfectacionVariable{}, false
}

func (s *Session) HasExisting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasExisting
}

func (s *Session) Value(parroquiaID, variableID int64) (Cell, bool) {
	return s.cells.Value(parroquiaID, variableID)
}

func (s *Session) RecordID(parroquiaID, variableID int64) (int64, bool) {
	return s.cells.RecordID(parroquiaID, variableID)
}

// Commit merges patch into the cell. The cost of a variable that does not
// require one is always stored as nil.
func (s *Session) Commit(parroquiaID, variableID int64, patch CellPatch) (Cell, error) {
	if s.closed() {
		return Cell{}, constants.ErrSessionClosed
	}

	s.mu.RLock()
	costAllowed := s.requiresCostLocked(variableID)
	s.mu.RUnlock()
	if !costAllowed {
		patch.Costo = Clear()
	}

	return s.cells.Commit(parroquiaID, variableID, patch), nil
}

// Editor returns a cell editor bound to this session.
func (s *Session) Editor(parroquiaID, variableID int64) (*CellEditor, bool) {
	v, ok := s.Variable(variableID)
	if !ok {
		return nil, false
	}
	return NewCellEditor(s, parroquiaID, v), true
}

func (s *Session) saveRequest() SaveRequest {
	return SaveRequest{
		EmergenciaID: s.cfg.EmergenciaID,
		ProvinciaID:  s.Cascade.ProvinciaID(),
		CantonID:     s.Cascade.CantonID(),
		Creador:      s.cfg.Creador,
		Parroquias:   s.Cascade.SelectedIDs(),
		Variables:    s.Variables(),
		HasExisting:  s.HasExisting(),
	}
}

// Plan reports what Save would send without sending it.
func (s *Session) Plan() ([]PlannedOp, int, error) {
	return s.saver.Plan(s.saveRequest())
}

func (s *Session) Save(ctx context.Context) (*SaveReport, error) {
	if s.closed() {
		return nil, constants.ErrSessionClosed
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	report, err := s.saver.Save(ctx, s.saveRequest())
	// a cancelled caller still gets the report; Close drops it
	if err != nil && s.closed() {
		return nil, constants.ErrSessionClosed
	}
	return report, err
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
