package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the standard cost catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalog(app.Plan.Reference().Catalog()))
			return nil
		},
	}

	cmd.AddCommand(
		newCatalogShowCmd(app),
		newCatalogBrowseCmd(app),
	)

	return cmd
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   `show "CLASS > TYPE > ACTION"`,
		Short: "Show one catalog action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := domain.ParseActionPath(args[0])
			if err != nil {
				return err
			}
			e, ok := app.Plan.Reference().Catalog().Lookup(path)
			if !ok {
				return fmt.Errorf("%q is not in the cost catalog", path.String())
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalogEntry(e))
			return nil
		},
	}
}

func newCatalogBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the cost catalog interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := app.Plan.Reference().Catalog()
			if !app.interactive() {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalog(catalog))
				return nil
			}
			_, err := tea.NewProgram(newCatalogBrowser(catalog), tea.WithAltScreen()).Run()
			return err
		},
	}
}
