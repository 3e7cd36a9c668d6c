package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/ougirez/coe-afectaciones/internal/pkg/printers"
	"github.com/ougirez/coe-afectaciones/internal/service/matrix"
	"gopkg.in/yaml.v3"
)

var ErrSaveIncomplete = errors.New("some cells were not saved")

// Edit is typed input for one cell, as a user would enter it. A nil field is
// left untouched; an empty string clears the value.
type Edit struct {
	ParroquiaID int64   `yaml:"parroquia_id"`
	VariableID  int64   `yaml:"variable_id"`
	Cantidad    *string `yaml:"cantidad"`
	Costo       *string `yaml:"costo"`
}

type editsFile struct {
	Edits []Edit `yaml:"edits"`
}

// ReadEdits decodes an edits document. JSON is valid input too.
func ReadEdits(r io.Reader) ([]Edit, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f editsFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("yaml.Decode: %w", err)
	}
	return f.Edits, nil
}

// Apply replays edits through the cell editors and saves the matrix.
type Apply struct {
	Session *matrix.Session
	Edits   []Edit
	DryRun  bool
	JSON    bool
	Out     io.Writer
}

func (a *Apply) Do(ctx context.Context) error {
	if err := a.Session.Open(ctx); err != nil {
		return err
	}

	selected := make(map[int64]bool)
	for _, id := range a.Session.Cascade.SelectedIDs() {
		selected[id] = true
	}

	for i, e := range a.Edits {
		if !selected[e.ParroquiaID] {
			return fmt.Errorf("edit %d: parroquia %d is not in the selected canton", i+1, e.ParroquiaID)
		}
		if err := a.apply(e); err != nil {
			return fmt.Errorf("edit %d: %w", i+1, err)
		}
	}

	if a.DryRun {
		ops, unchanged, err := a.Session.Plan()
		if err != nil {
			return err
		}
		printers.PlannedOps(a.Out, ops, unchanged)
		return nil
	}

	report, err := a.Session.Save(ctx)
	if report == nil {
		return err
	}

	if a.JSON {
		if err := writeJSON(a.Out, newReportJSON(report)); err != nil {
			return err
		}
	} else {
		printers.SaveReport(a.Out, report)
	}

	if err != nil {
		return err
	}
	if !report.OK() {
		return ErrSaveIncomplete
	}
	return nil
}

func (a *Apply) apply(e Edit) error {
	editor, ok := a.Session.Editor(e.ParroquiaID, e.VariableID)
	if !ok {
		return fmt.Errorf("unknown variable %d", e.VariableID)
	}

	if e.Cantidad != nil {
		if err := editor.TypeCantidad(*e.Cantidad); err != nil {
			return err
		}
	}
	if e.Costo != nil {
		if err := editor.TypeCosto(*e.Costo); err != nil {
			return err
		}
	}
	return editor.Enter()
}

type outcomeJSON struct {
	ParroquiaID int64  `json:"parroquia_id"`
	VariableID  int64  `json:"variable_id"`
	Op          string `json:"op"`
	ID          int64  `json:"id,omitempty"`
	Error       string `json:"error,omitempty"`
}

type reportJSON struct {
	Message   string        `json:"message"`
	OK        bool          `json:"ok"`
	Unchanged int           `json:"unchanged"`
	Outcomes  []outcomeJSON `json:"outcomes"`
}

func newReportJSON(r *matrix.SaveReport) reportJSON {
	out := reportJSON{
		Message:   r.Message(),
		OK:        r.OK(),
		Unchanged: r.Unchanged,
		Outcomes:  make([]outcomeJSON, 0, len(r.Outcomes)),
	}
	for _, o := range r.Outcomes {
		oj := outcomeJSON{ParroquiaID: o.ParroquiaID, VariableID: o.VariableID, Op: o.Op.String()}
		if o.OK() {
			oj.ID = o.ID
		} else {
			oj.Error = o.Err.Error()
		}
		out.Outcomes = append(out.Outcomes, oj)
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("sonic.MarshalIndent: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
