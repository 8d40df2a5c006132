package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import exported projects, actions and audit history into an empty store",
		Long: "Import reads " + importer.ProjectsFile + ", " + importer.ActionsFile + " and " +
			importer.AuditTrailFile + " from the data directory. It runs once; a store that " +
			"already holds projects is left untouched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = app.DataDir
			}
			seed, report, err := importer.LoadSeed(dir, app.Plan.Planner().Now(), app.Logger)
			if err != nil {
				return fmt.Errorf("reading seed data: %w", err)
			}

			res, err := app.Plan.ImportSeed(cmdContext(cmd), seed)
			if errors.Is(err, service.ErrAlreadyImported) {
				return fmt.Errorf("%w; import only runs against a fresh store", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d projects, %d actions and %d audit entries\n",
				res.Projects, res.Actions, res.AuditEntries)
			if report.HasProblems() {
				errOut := cmd.ErrOrStderr()
				for _, s := range report.Skipped {
					fmt.Fprintln(errOut, formatter.StyleYellow.Render("skipped: ")+s.String())
				}
				for _, d := range report.Diagnostics {
					fmt.Fprintln(errOut, formatter.StyleYellow.Render("repaired: ")+d)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory holding the CSV files (default: the data directory)")

	return cmd
}
