// Package runner holds the work behind each coe-matrix command.
package runner

import (
	"context"
	"io"

	"github.com/ougirez/coe-afectaciones/internal/pkg/printers"
	"github.com/ougirez/coe-afectaciones/internal/service/matrix"
)

// Grid loads the matrix for the session's selection and prints it.
type Grid struct {
	Session *matrix.Session
	Out     io.Writer
}

func (g *Grid) Do(ctx context.Context) error {
	if err := g.Session.Open(ctx); err != nil {
		return err
	}
	printers.Grid(g.Out, g.Session.Grid())
	return nil
}
