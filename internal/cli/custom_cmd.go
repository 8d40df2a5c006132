package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newCustomCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Manage user-defined custom actions",
	}

	cmd.AddCommand(
		newCustomListCmd(app),
		newCustomAddCmd(app),
		newCustomUpdateCmd(app),
		newCustomDeleteCmd(app),
	)

	return cmd
}

func newCustomListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List custom actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCustomActions(app.Plan.CustomActions()))
			return nil
		},
	}
}

type customFlags struct {
	in service.CustomActionInput
}

func (cf *customFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&cf.in.Name, "name", "", "Action name")
	fs.StringVar(&cf.in.Description, "description", "", "Description")
	fs.Float64Var(&cf.in.Cost, "cost", 0, "Flat cost")
	fs.StringVar(&cf.in.Unit, "unit", "", `Unit of measure (default "Each")`)
	fs.IntVar(&cf.in.Lifecycle, "lifecycle", 0, "Expected lifecycle in years")
	fs.StringVar(&cf.in.Category, "category", "", "Category")
}

// apply copies the flags the user set onto base.
func (cf *customFlags) apply(fs *pflag.FlagSet, base service.CustomActionInput) service.CustomActionInput {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "name":
			base.Name = cf.in.Name
		case "description":
			base.Description = cf.in.Description
		case "cost":
			base.Cost = cf.in.Cost
		case "unit":
			base.Unit = cf.in.Unit
		case "lifecycle":
			base.Lifecycle = cf.in.Lifecycle
		case "category":
			base.Category = cf.in.Category
		}
	})
	return base
}

func newCustomAddCmd(app *App) *cobra.Command {
	var cf customFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Plan.CreateCustomAction(cmdContext(cmd), cf.in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created custom action %s [%s]\n", c.Name, formatter.TruncID(c.ID))
			return nil
		},
	}

	cf.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCustomUpdateCmd(app *App) *cobra.Command {
	var cf customFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a custom action; already planned actions keep their cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := resolveCustomAction(app, args[0])
			if err != nil {
				return err
			}
			base := service.CustomActionInput{
				Name:        current.Name,
				Description: current.Description,
				Cost:        current.Cost,
				Unit:        current.Unit,
				Lifecycle:   current.Lifecycle,
				Category:    current.Category,
			}

			c, err := app.Plan.UpdateCustomAction(cmdContext(cmd), current.ID, cf.apply(cmd.Flags(), base))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated custom action %s\n", c.Name)
			return nil
		},
	}

	cf.register(cmd.Flags())

	return cmd
}

func newCustomDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a custom action",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := resolveCustomAction(app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(app, yes, fmt.Sprintf("Delete custom action %q?", c.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := app.Plan.DeleteCustomAction(cmdContext(cmd), c.ID, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted custom action %s\n", c.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
