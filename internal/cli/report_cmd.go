package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show planned and actual spend per year over the planning horizon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := app.Plan.CapitalPlan()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCapitalPlan(plan.Rows, plan.Totals, plan.MaxSpend))
			return nil
		},
	}
}

// defaultExportFile is the file name used by --out without a value.
const defaultExportFile = "actions-list-export.csv"

func newExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every action as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			n, err := app.Plan.ExportActions(cmdContext(cmd), w)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d actions to %s\n", n, out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().Lookup("out").NoOptDefVal = defaultExportFile

	return cmd
}
