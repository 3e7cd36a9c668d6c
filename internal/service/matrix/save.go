package matrix

import (
	"context"
	"fmt"

	"github.com/ougirez/coe-afectaciones/internal/domain"
	"github.com/ougirez/coe-afectaciones/internal/domain/dto"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

type Op int

const (
	OpCreate Op = iota + 1
	OpUpdate
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// PlannedOp is one request a save pass will issue.
type PlannedOp struct {
	Key
	Op       Op
	RecordID int64 // only for OpUpdate
	Cantidad float64
	Costo    float64

	sent Cell
}

// Outcome is the result of one PlannedOp.
type Outcome struct {
	Key
	Op  Op
	ID  int64
	Err error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type SaveReport struct {
	Outcomes []Outcome
	// non-empty cells left alone because the server already holds their content
	Unchanged   int
	HasExisting bool
}

func (r *SaveReport) filter(keep func(Outcome) bool) []Outcome {
	out := make([]Outcome, 0)
	for _, o := range r.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (r *SaveReport) Created() []Outcome {
	return r.filter(func(o Outcome) bool { return o.OK() && o.Op == OpCreate })
}

func (r *SaveReport) Updated() []Outcome {
	return r.filter(func(o Outcome) bool { return o.OK() && o.Op == OpUpdate })
}

func (r *SaveReport) Failed() []Outcome {
	return r.filter(func(o Outcome) bool { return !o.OK() })
}

func (r *SaveReport) OK() bool {
	return len(r.Failed()) == 0
}

// Message is the one-line toast for the whole pass.
func (r *SaveReport) Message() string {
	failed := len(r.Failed())
	total := len(r.Outcomes)

	switch {
	case total == 0:
		return "No hay cambios para guardar"
	case failed == total:
		return "No se pudo guardar la matriz de afectaciones"
	case failed > 0:
		return fmt.Sprintf("Se guardaron %d de %d celdas; %d fallaron", total-failed, total, failed)
	case r.HasExisting:
		return "Afectaciones actualizadas correctamente"
	default:
		return "Afectaciones registradas correctamente"
	}
}

type SaveRequest struct {
	EmergenciaID int64
	ProvinciaID  int64
	CantonID     int64
	Creador      string
	Parroquias   []int64
	Variables    []domain.AfectacionVariable
	HasExisting  bool
}

type SaveCoordinator struct {
	backend         Backend
	cells           *Cells
	maxInFlight     int
	resendUnchanged bool
}

func NewSaveCoordinator(backend Backend, cells *Cells, maxInFlight int, resendUnchanged bool) *SaveCoordinator {
	return &SaveCoordinator{
		backend:         backend,
		cells:           cells,
		maxInFlight:     maxInFlight,
		resendUnchanged: resendUnchanged,
	}
}

// Plan walks selected parishes x variables and decides, per cell, whether
// it is skipped, updated or created. It issues no request.
func (s *SaveCoordinator) Plan(req SaveRequest) ([]PlannedOp, int, error) {
	if req.ProvinciaID == 0 || req.CantonID == 0 || len(req.Parroquias) == 0 {
		return nil, 0, constants.ErrMissingSelection
	}

	var (
		ops       []PlannedOp
		unchanged int
	)
	for _, parroquiaID := range req.Parroquias {
		for _, v := range req.Variables {
			key := Key{ParroquiaID: parroquiaID, VariableID: v.ID}
			cell, ok := s.cells.Value(key.ParroquiaID, key.VariableID)
			if !ok || cell.Empty() {
				continue
			}

			recordID, known := s.cells.RecordID(key.ParroquiaID, key.VariableID)
			if known && !s.resendUnchanged && !s.cells.Dirty(key) {
				unchanged++
				continue
			}

			op := PlannedOp{
				Key:      key,
				Op:       OpCreate,
				Cantidad: valueOrZero(cell.Cantidad),
				Costo:    valueOrZero(cell.Costo),
				sent:     cell,
			}
			if known {
				op.Op = OpUpdate
				op.RecordID = recordID
			}
			ops = append(ops, op)
		}
	}

	return ops, unchanged, nil
}

// Save fires every planned request concurrently, waits for all of them and
// folds the results into a report. A failed request never stops the others.
// Ids assigned by creates are reconciled into the store so the next pass
// updates instead of creating again. That also holds when ctx ends mid-pass:
// requests cut short show up as failed outcomes and the report is returned
// together with ctx.Err().
func (s *SaveCoordinator) Save(ctx context.Context, req SaveRequest) (*SaveReport, error) {
	ops, unchanged, err := s.Plan(req)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(ops))

	var eg errgroup.Group
	if s.maxInFlight > 0 {
		eg.SetLimit(s.maxInFlight)
	}

	for i, op := range ops {
		eg.Go(func() error {
			outcomes[i] = s.execute(ctx, req, op)
			return nil
		})
	}
	_ = eg.Wait()

	for i, o := range outcomes {
		if !o.OK() {
			logger.Warnf(ctx, "save %s parroquia-%d variable-%d: %s", o.Op, o.ParroquiaID, o.VariableID, o.Err.Error())
			continue
		}
		s.cells.Reconcile(o.Key, o.ID, ops[i].sent)
	}

	report := &SaveReport{Outcomes: outcomes, Unchanged: unchanged, HasExisting: req.HasExisting}
	return report, ctx.Err()
}

func (s *SaveCoordinator) execute(ctx context.Context, req SaveRequest, op PlannedOp) Outcome {
	out := Outcome{Key: op.Key, Op: op.Op}

	switch op.Op {
	case OpUpdate:
		out.ID = op.RecordID
		out.Err = s.backend.UpdateRegistro(ctx, op.RecordID, dto.UpdateRegistroRequest{
			Cantidad: op.Cantidad,
			Costo:    op.Costo,
		})
	default:
		out.ID, out.Err = s.backend.CreateRegistro(ctx, dto.CreateRegistroRequest{
			Activo:               true,
			AfectacionVariableID: op.VariableID,
			Cantidad:             op.Cantidad,
			CantonID:             req.CantonID,
			Costo:                op.Costo,
			Creador:              req.Creador,
			EmergenciaID:         req.EmergenciaID,
			ParroquiaID:          op.ParroquiaID,
			ProvinciaID:          req.ProvinciaID,
		})
	}

	return out
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
