package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/ougirez/coe-afectaciones/internal/commands/options"
	"github.com/ougirez/coe-afectaciones/internal/runner"
	"github.com/spf13/cobra"
)

func addApply(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "apply -f edits.yaml",
		Short: "Type a set of cell edits and save the matrix.",
		Long: `Each edit is entered the way a user types it: a blank value clears the
field, "," is accepted as decimal separator and an omitted field is left as it is.

edits:
  - parroquia_id: 90101
    variable_id: 1
    cantidad: 5
    costo: "10,50"`,
		Example: `
coe-matrix apply -f edits.yaml
coe-matrix apply -f edits.yaml --dry-run
cat edits.json | coe-matrix apply -f - --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := readEditsFile(file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			s, _, err := newSession()
			if err != nil {
				return err
			}
			defer s.Close()

			out := color.Output
			if oo.JSON {
				out = cmd.OutOrStdout()
			}

			a := runner.Apply{Session: s, Edits: edits, DryRun: dryRun, JSON: oo.JSON, Out: out}
			return a.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Edits file, - for stdin.")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the requests a save would send.")
	_ = cmd.MarkFlagRequired("file")
	options.AddOutputArgs(cmd, oo)

	topLevel.AddCommand(cmd)
}

func readEditsFile(path string, stdin io.Reader) ([]runner.Edit, error) {
	if path == "-" {
		return runner.ReadEdits(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return runner.ReadEdits(f)
}
