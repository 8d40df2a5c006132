package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newActionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "action",
		Aliases: []string{"actions"},
		Short:   "Plan actions against assets",
	}

	cmd.AddCommand(
		newActionAddCmd(app),
		newActionEditCmd(app),
		newActionStatusCmd(app),
		newActionDeleteCmd(app),
	)

	return cmd
}

// actionFlags binds the action form fields to a flag set.
type actionFlags struct {
	asset      string
	planned    string
	path       string
	custom     string
	due        dateFlag
	override   dateFlag
	recurrence recurrenceFlags
	percentage int
	size       floatFlag
	factor     floatFlag
	cost       intFlag
}

func (af *actionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&af.asset, "asset", "", "Asset ID")
	fs.StringVar(&af.planned, "planned", "", "Name of a planned asset that does not exist yet")
	fs.StringVar(&af.path, "action", "", `Cost catalog action, e.g. "Trees > Oak Tree > Prune"`)
	fs.StringVar(&af.custom, "custom", "", "Custom action ID or name")
	fs.Var(&af.due, "due", "Next due date (YYYY-MM-DD)")
	fs.Var(&af.override, "override-date", "Override date (YYYY-MM-DD)")
	af.recurrence.register(fs)
	fs.IntVar(&af.percentage, "percentage", 0, "Share of the asset covered, 1-100 (default 100)")
	fs.Var(&af.size, "size", "Asset size (defaults to the asset's size)")
	fs.Var(&af.factor, "factor", "Cost adjustment factor")
	fs.Var(&af.cost, "cost", "Override cost, replaces the modeled cost")
}

// apply copies the flags the user set onto base.
func (af *actionFlags) apply(app *App, fs *pflag.FlagSet, base service.ActionInput) (service.ActionInput, error) {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "asset":
			base.AssetID, base.PlannedAssetName = af.asset, ""
		case "planned":
			base.PlannedAssetName, base.AssetID = af.planned, ""
		case "action":
			base.ActionPath, err = parseActionRef(af.path)
			base.CustomActionID = ""
		case "custom":
			var c domain.CustomAction
			c, err = resolveCustomAction(app, af.custom)
			base.CustomActionID, base.ActionPath = c.ID, domain.ActionPath{}
		case "due":
			base.NextDue = af.due.Value()
		case "override-date":
			base.OverrideDate = af.override.Value()
		case "every", "unit":
			base.Recurrence, err = af.recurrence.recurrence()
		case "percentage":
			base.AssetPercentage = af.percentage
		case "size":
			base.AssetSize = af.size.v
		case "factor":
			base.AdjustmentFactor = af.factor.v
		case "cost":
			base.OverrideCost = af.cost.v
		}
	})
	return base, err
}

func printSaved(cmd *cobra.Command, verb string, saved []domain.Action) {
	out := cmd.OutOrStdout()
	if len(saved) == 0 {
		return
	}
	if len(saved) == 1 {
		fmt.Fprintf(out, "%s action %s [%s]\n", verb, saved[0].Name, formatter.TruncID(saved[0].ID))
		return
	}
	fmt.Fprintf(out, "%s %d recurring actions\n", verb, len(saved))
	fmt.Fprintln(out, formatter.FormatActionTable(saved))
}

func newActionAddCmd(app *App) *cobra.Command {
	var af actionFlags

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add an action to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			in, err := af.apply(app, cmd.Flags(), service.ActionInput{ProjectID: p.ID})
			if err != nil {
				return err
			}

			saved, err := app.Plan.SaveAction(cmdContext(cmd), in)
			if err != nil {
				return err
			}
			printSaved(cmd, "Added", saved)
			return nil
		},
	}

	af.register(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("asset", "planned")
	cmd.MarkFlagsMutuallyExclusive("action", "custom")

	return cmd
}

func newActionEditCmd(app *App) *cobra.Command {
	var af actionFlags

	cmd := &cobra.Command{
		Use:   "edit PROJECT ACTION",
		Short: "Edit an action; recurring actions regenerate their open tail",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			a, err := resolveAction(p, args[1])
			if err != nil {
				return err
			}
			in, err := af.apply(app, cmd.Flags(), service.ActionInputFrom(p.ID, a))
			if err != nil {
				return err
			}

			saved, err := app.Plan.SaveAction(cmdContext(cmd), in)
			if err != nil {
				return err
			}
			printSaved(cmd, "Updated", saved)
			return nil
		},
	}

	af.register(cmd.Flags())
	cmd.MarkFlagsMutuallyExclusive("asset", "planned")
	cmd.MarkFlagsMutuallyExclusive("action", "custom")

	return cmd
}

func newActionStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status PROJECT ACTION STATUS",
		Short: "Change the status of an action",
		Long:  "Change the status of an action. Completed and Archived actions are copied to the archive.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			a, err := resolveAction(p, args[1])
			if err != nil {
				return err
			}
			var status actionStatusFlag
			if err := status.Set(args[2]); err != nil {
				return err
			}

			updated, err := app.Plan.UpdateActionStatus(cmdContext(cmd), p.ID, a.ID, status.status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatter.ActionStatusPill(updated.Status), updated.Name)
			return nil
		},
	}
}

func newActionDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete PROJECT ACTION",
		Aliases: []string{"rm"},
		Short:   "Delete an action",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			a, err := resolveAction(p, args[1])
			if err != nil {
				return err
			}
			ok, err := confirm(app, yes, fmt.Sprintf("Delete %q?", a.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := app.Plan.DeleteAction(cmdContext(cmd), p.ID, a.ID, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted action %s\n", a.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
