// Package options defines shared flag helpers for coe-matrix commands.
package options

import (
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SelectionOptions choose the emergency, the mesa grupo and the starting
// province and canton. Zero values fall back to config and token claims.
type SelectionOptions struct {
	ProvinciaID int64
	CantonID    int64
}

func AddSelectionArgs(cmd *cobra.Command, o *SelectionOptions) {
	cmd.PersistentFlags().Int64("emergencia", 0, "Emergency id (matrix.emergencia_id).")
	cmd.PersistentFlags().Int64("mesa-grupo", 0, "Mesa grupo id (matrix.mesa_grupo_id).")
	cmd.PersistentFlags().Int64Var(&o.ProvinciaID, "provincia", 0, "Province id, defaults to the token's.")
	cmd.PersistentFlags().Int64Var(&o.CantonID, "canton", 0, "Canton id, defaults to the token's.")

	_ = viper.BindPFlag(constants.ViperMatrixEmergenciaKey, cmd.PersistentFlags().Lookup("emergencia"))
	_ = viper.BindPFlag(constants.ViperMatrixMesaGrupoKey, cmd.PersistentFlags().Lookup("mesa-grupo"))
}

// CellOptions address one matrix cell.
type CellOptions struct {
	ParroquiaID int64
	VariableID  int64
}

func AddCellArgs(cmd *cobra.Command, o *CellOptions) {
	cmd.Flags().Int64VarP(&o.ParroquiaID, "parroquia", "p", 0, "Parish id.")
	cmd.Flags().Int64VarP(&o.VariableID, "variable", "v", 0, "Variable id.")
	_ = cmd.MarkFlagRequired("parroquia")
	_ = cmd.MarkFlagRequired("variable")
}

type OutputOptions struct {
	JSON bool
}

func AddOutputArgs(cmd *cobra.Command, o *OutputOptions) {
	cmd.Flags().BoolVar(&o.JSON, "json", false, "Print the result as JSON.")
}
