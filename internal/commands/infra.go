package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/ougirez/coe-afectaciones/internal/commands/options"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/runner"
	"github.com/ougirez/coe-afectaciones/internal/service/infra"
	"github.com/ougirez/coe-afectaciones/internal/service/matrix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func addInfra(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "infra",
		Short: "Inspect or change the infrastructure checklist of a cell.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addInfraList(cmd)
	addInfraSet(cmd)

	topLevel.AddCommand(cmd)
}

func newInfraRunner(co *options.CellOptions) (*runner.Infra, func(), error) {
	s, client, err := newSession()
	if err != nil {
		return nil, nil, err
	}

	cfg := s.Config()
	editor := infra.NewEditor(client, s, infra.Config{
		EmergenciaID: cfg.EmergenciaID,
		Creador:      cfg.Creador,
		MaxInFlight:  viper.GetInt(constants.ViperMatrixMaxInFlightKey),
	})

	r := &runner.Infra{
		Session:     s,
		Editor:      editor,
		ParroquiaID: co.ParroquiaID,
		VariableID:  co.VariableID,
		Out:         color.Output,
	}
	return r, s.Close, nil
}

func addInfraList(topLevel *cobra.Command) {
	co := &options.CellOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List the infrastructure of a cell.",
		Example: "coe-matrix infra list -p 90101 -v 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := newInfraRunner(co)
			if err != nil {
				return err
			}
			defer closeFn()

			return r.List(cmd.Context())
		},
	}

	options.AddCellArgs(cmd, co)
	topLevel.AddCommand(cmd)
}

func addInfraSet(topLevel *cobra.Command) {
	co := &options.CellOptions{}
	var (
		check   []int64
		uncheck []int64
		costos  map[string]string
	)

	cmd := &cobra.Command{
		Use:     "set",
		Short:   "Check or uncheck infrastructure of a cell and save.",
		Example: "coe-matrix infra set -p 90101 -v 1 --check 71,72 --uncheck 80 --costo 71=1500",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, closeFn, err := newInfraRunner(co)
			if err != nil {
				return err
			}
			defer closeFn()

			r.Check, r.Uncheck = check, uncheck
			r.Costos, err = parseCostos(costos)
			if err != nil {
				return err
			}
			return r.Set(cmd.Context())
		},
	}

	options.AddCellArgs(cmd, co)
	cmd.Flags().Int64SliceVar(&check, "check", nil, "Infraestructura ids to register.")
	cmd.Flags().Int64SliceVar(&uncheck, "uncheck", nil, "Infraestructura ids to unregister.")
	cmd.Flags().StringToStringVar(&costos, "costo", nil, "Cost per newly registered id, as id=amount.")

	topLevel.AddCommand(cmd)
}

func parseCostos(raw map[string]string) (map[int64]float64, error) {
	out := make(map[int64]float64, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--costo %s: invalid id", k)
		}
		costo, err := matrix.ParseNumber(v)
		if err != nil {
			return nil, fmt.Errorf("--costo %s: %w", k, err)
		}
		if costo != nil {
			out[id] = *costo
		}
	}
	return out, nil
}
