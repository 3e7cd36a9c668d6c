package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/printers"
	"github.com/ougirez/coe-afectaciones/internal/service/infra"
	"github.com/ougirez/coe-afectaciones/internal/service/matrix"
)

// Infra opens the infrastructure checklist of one cell and optionally
// changes it.
type Infra struct {
	Session     *matrix.Session
	Editor      *infra.Editor
	ParroquiaID int64
	VariableID  int64

	Check   []int64
	Uncheck []int64
	// cost per infraestructura id, sent for newly checked items
	Costos map[int64]float64

	Out io.Writer
}

func (r *Infra) open(ctx context.Context) error {
	if err := r.Session.Open(ctx); err != nil {
		return err
	}

	err := r.Editor.Open(ctx, r.ParroquiaID, r.VariableID)
	if errors.Is(err, constants.ErrRecordRequired) {
		_, _ = fmt.Fprintln(r.Out, color.YellowString(err.Error()))
	}
	return err
}

// List prints the checklist.
func (r *Infra) List(ctx context.Context) error {
	defer r.Editor.Close()

	if err := r.open(ctx); err != nil {
		return err
	}
	printers.InfraItems(r.Out, r.Editor.Items())
	return nil
}

// Set toggles the requested items, saves and prints the reloaded checklist.
func (r *Infra) Set(ctx context.Context) error {
	defer r.Editor.Close()

	if err := r.open(ctx); err != nil {
		return err
	}

	for _, id := range r.Check {
		if err := r.Editor.Toggle(id, true); err != nil {
			return err
		}
	}
	for _, id := range r.Uncheck {
		if err := r.Editor.Toggle(id, false); err != nil {
			return err
		}
	}
	for id, costo := range r.Costos {
		if err := r.Editor.SetCosto(id, costo); err != nil {
			return err
		}
	}

	report, err := r.Editor.Save(ctx)
	if report != nil {
		printers.InfraReport(r.Out, report)
	}
	if err != nil {
		return err
	}
	printers.InfraItems(r.Out, r.Editor.Items())

	if !report.OK() {
		return ErrSaveIncomplete
	}
	return nil
}
