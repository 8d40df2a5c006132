// Package cli is the capplan command-line interface. Commands are thin: they
// parse flags, call the plan service and render results with the formatter.
package cli

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/capplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds what CLI commands need to run.
type App struct {
	Plan *service.PlanService
	// DataDir is where the CSV tables are read from by "import".
	DataDir string
	// Logger receives import diagnostics. Nil discards them.
	Logger *slog.Logger

	// IsInteractive reports whether prompts and the TUI can be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh prompt.
	Confirm func(title string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "capplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "capplan",
		Short:         "Capital planning for municipal asset renewals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newActionCmd(app),
		newBulkCmd(app),
		newReportCmd(app),
		newExportCmd(app),
		newCatalogCmd(app),
		newAssetsCmd(app),
		newCustomCmd(app),
		newAuditCmd(app),
		newArchiveCmd(app),
		newImportCmd(app),
	)

	return root
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
