package commands

import (
	"github.com/fatih/color"
	"github.com/ougirez/coe-afectaciones/internal/runner"
	"github.com/spf13/cobra"
)

func addGrid(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the matrix of the selected canton.",
		Example: `
coe-matrix grid
coe-matrix grid --provincia 9 --canton 901
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			g := runner.Grid{Session: s, Out: color.Output}
			return g.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
