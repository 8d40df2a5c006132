package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newBulkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Plan one action for every asset of a type in a region",
	}

	cmd.AddCommand(
		newBulkPreviewCmd(app),
		newBulkRunCmd(app),
	)

	return cmd
}

type bulkFlags struct {
	region     string
	assetType  string
	path       string
	custom     string
	due        dateFlag
	override   dateFlag
	recurrence recurrenceFlags
	percentage int
	factor     floatFlag
	cost       intFlag
}

func (bf *bulkFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&bf.region, "region", "", "Region of the assets")
	fs.StringVar(&bf.assetType, "type", "", "Asset type name")
	fs.StringVar(&bf.path, "action", "", `Cost catalog action, e.g. "Trees > Oak Tree > Prune"`)
	fs.StringVar(&bf.custom, "custom", "", "Custom action ID or name")
	fs.Var(&bf.due, "due", "Next due date (YYYY-MM-DD)")
	fs.Var(&bf.override, "override-date", "Override date (YYYY-MM-DD)")
	bf.recurrence.register(fs)
	fs.IntVar(&bf.percentage, "percentage", 0, "Share of each asset covered, 1-100 (default 100)")
	fs.Var(&bf.factor, "factor", "Cost adjustment factor")
	fs.Var(&bf.cost, "cost", "Override cost per action")
}

func (bf *bulkFlags) input(app *App, projectID string) (service.BulkInput, error) {
	in := service.BulkInput{
		ProjectID:        projectID,
		Region:           strings.TrimSpace(bf.region),
		AssetTypeName:    strings.TrimSpace(bf.assetType),
		NextDue:          bf.due.Value(),
		OverrideDate:     bf.override.Value(),
		AssetPercentage:  bf.percentage,
		AdjustmentFactor: bf.factor.v,
		OverrideCost:     bf.cost.v,
	}
	var err error
	if in.ActionPath, err = parseActionRef(bf.path); err != nil {
		return in, err
	}
	if bf.custom != "" {
		var c domain.CustomAction
		if c, err = resolveCustomAction(app, bf.custom); err != nil {
			return in, err
		}
		in.CustomActionID = c.ID
	}
	in.Recurrence, err = bf.recurrence.recurrence()
	return in, err
}

func newBulkPreviewCmd(app *App) *cobra.Command {
	var bf bulkFlags

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the asset types of a region and how many assets match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := bf.input(app, "")
			if err != nil {
				return err
			}
			preview := app.Plan.PreviewBulk(in)

			out := cmd.OutOrStdout()
			if len(preview.AssetTypes) == 0 {
				fmt.Fprintln(out, formatter.Dim("No asset types in this region."))
			} else {
				fmt.Fprintln(out, formatter.Header("Asset types"))
				for _, t := range preview.AssetTypes {
					fmt.Fprintf(out, "  %s\n", t)
				}
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Field("MATCHING ASSETS", fmt.Sprintf("%d", preview.MatchCount)))
			fmt.Fprintln(out, formatter.Field("NAME PREVIEW   ", formatter.TextOrDash(preview.Name)))
			return nil
		},
	}

	bf.register(cmd.Flags())

	return cmd
}

func newBulkRunCmd(app *App) *cobra.Command {
	var (
		bf  bulkFlags
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "run PROJECT",
		Short: "Generate the actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			in, err := bf.input(app, p.ID)
			if err != nil {
				return err
			}

			preview := app.Plan.PreviewBulk(in)
			if preview.MatchCount > 0 {
				title := fmt.Sprintf("Add actions for %d assets to %s?", preview.MatchCount, p.Code)
				ok, err := confirm(app, yes, title)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			summary, err := app.Plan.BulkGenerate(cmdContext(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary.Message)
			return nil
		},
	}

	bf.register(cmd.Flags())
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagsMutuallyExclusive("action", "custom")

	return cmd
}
