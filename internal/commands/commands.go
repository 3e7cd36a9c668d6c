package commands

import (
	"github.com/ougirez/coe-afectaciones/internal/commands/options"
	"github.com/ougirez/coe-afectaciones/internal/pkg/config"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	so = &options.SelectionOptions{}
)

func New() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:           "coe-matrix",
		Short:         "Edit the COE affectation matrix from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(configDir); err != nil {
				return err
			}
			return logger.Init(viper.GetString(constants.ViperLogLevelKey), false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding coe.yaml.")
	cmd.PersistentFlags().String("log-level", "", "debug, info, warn or error.")
	_ = viper.BindPFlag(constants.ViperLogLevelKey, cmd.PersistentFlags().Lookup("log-level"))
	options.AddSelectionArgs(cmd, so)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addGrid(topLevel)
	addApply(topLevel)
	addInfra(topLevel)
}
