// Package printers renders editor state for the terminal.
package printers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/ougirez/coe-afectaciones/internal/service/infra"
	"github.com/ougirez/coe-afectaciones/internal/service/matrix"
)

var (
	bold  = color.New(color.Bold)
	title = color.New(color.Bold, color.Underline)
	faint = color.New(color.Faint)
	ok    = color.New(color.FgGreen)
	bad   = color.New(color.FgRed)
)

func number(v *float64) string {
	if v == nil {
		return faint.Sprint("-")
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Grid prints one row per parish and a cantidad/costo column pair per
// variable. Costs of variables without one are shown as n/a.
func Grid(w io.Writer, g matrix.Grid) {
	_, _ = fmt.Fprintln(w, title.Sprint("Matriz de afectaciones"))

	if len(g.Variables) == 0 || len(g.Rows) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("(sin datos)"))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "

	header := []interface{}{bold.Sprint("Parroquia")}
	for _, v := range g.Variables {
		header = append(header, bold.Sprint(v.Nombre), bold.Sprint("costo"))
	}
	tbl.AddRow(header...)

	for _, row := range g.Rows {
		cols := []interface{}{row.Parroquia.Nombre}
		for i, v := range g.Variables {
			cell := row.Cells[i]
			costo := faint.Sprint("n/a")
			if v.RequiereCosto {
				costo = number(cell.Costo)
			}
			cols = append(cols, number(cell.Cantidad), costo)
		}
		tbl.AddRow(cols...)
	}

	totals := []interface{}{bold.Sprint("Total")}
	for i, v := range g.Variables {
		costo := faint.Sprint("n/a")
		if v.RequiereCosto {
			costo = bold.Sprint(g.TotalCosto[i].String())
		}
		totals = append(totals, bold.Sprint(g.TotalCantidad[i].String()), costo)
	}
	tbl.AddRow(totals...)

	_, _ = fmt.Fprintln(w, tbl)
}

func PlannedOps(w io.Writer, ops []matrix.PlannedOp, unchanged int) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Op"), bold.Sprint("Parroquia"), bold.Sprint("Variable"), bold.Sprint("Registro"), bold.Sprint("Cantidad"), bold.Sprint("Costo"))
	for _, op := range ops {
		id := faint.Sprint("nuevo")
		if op.Op == matrix.OpUpdate {
			id = strconv.FormatInt(op.RecordID, 10)
		}
		tbl.AddRow(op.Op, op.ParroquiaID, op.VariableID, id, op.Cantidad, op.Costo)
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintf(w, "%d sin cambios\n", unchanged)
}

func SaveReport(w io.Writer, r *matrix.SaveReport) {
	msg := ok.Sprint(r.Message())
	if !r.OK() {
		msg = bad.Sprint(r.Message())
	}
	_, _ = fmt.Fprintln(w, msg)

	failed := r.Failed()
	if len(failed) == 0 {
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Op"), bold.Sprint("Parroquia"), bold.Sprint("Variable"), bold.Sprint("Error"))
	for _, o := range failed {
		tbl.AddRow(o.Op, o.ParroquiaID, o.VariableID, bad.Sprint(o.Err.Error()))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func InfraItems(w io.Writer, items []infra.Item) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("(sin infraestructura)"))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(" "), bold.Sprint("ID"), bold.Sprint("Nombre"), bold.Sprint("Detalle"))
	for _, it := range items {
		mark := "[ ]"
		if it.Checked {
			mark = "[x]"
		}
		detalle := faint.Sprint("-")
		if it.DetalleID != nil {
			detalle = strconv.FormatInt(*it.DetalleID, 10)
		}
		tbl.AddRow(mark, it.InfraestructuraID, it.Nombre, detalle)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func InfraReport(w io.Writer, r *infra.Report) {
	msg := ok.Sprint(r.Message())
	if !r.OK() {
		msg = bad.Sprint(r.Message())
	}
	_, _ = fmt.Fprintln(w, msg)

	for _, o := range r.Failed() {
		_, _ = fmt.Fprintf(w, "  %s infraestructura-%d: %s\n", o.Op, o.InfraestructuraID, bad.Sprint(o.Err.Error()))
	}
}
