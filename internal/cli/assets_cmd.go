package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newAssetsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "assets [TERM]",
		Aliases: []string{"asset"},
		Short:   "Search assets by ID, name, type or region",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := app.Plan.Reference()
			term := strings.TrimSpace(strings.Join(args, " "))
			assets, diags := ref.SearchAssets(term)

			total := len(assets)
			if limit > 0 && total > limit {
				assets = assets[:limit]
			}
			typeName := func(code string) string {
				if t, ok := ref.AssetType(code); ok {
					return t.Name
				}
				return formatter.Dim(code)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatAssets(assets, typeName))
			if total > len(assets) {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("Showing %d of %d assets; use --limit to see more.", len(assets), total)))
			}
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: ")+d)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of assets to show (0 for all)")

	return cmd
}
