package cli

import (
	"fmt"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage capital projects",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectCreateCmd(app),
		newProjectUpdateCmd(app),
	)

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var (
		f        service.ProjectFilter
		archived bool
		status   projectStatusFlag
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Tab = service.TabAll
			if archived {
				f.Tab = service.TabArchived
			}
			f.Status = status.status

			projects := app.Plan.FilterProjects(f)
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Show archived projects only")
	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Match name, description or region")
	cmd.Flags().Var(&status, "status", "Filter by status")
	cmd.Flags().StringVar(&f.Team, "team", "", "Filter by team")
	cmd.Flags().StringVar(&f.Region, "region", "", "Filter by region")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project with its actions and rollups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p))
			return nil
		},
	}
}

// projectFlags binds the editable project fields to a flag set.
type projectFlags struct {
	in     service.ProjectInput
	status projectStatusFlag
	start  dateFlag
	end    dateFlag
}

func (pf *projectFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&pf.in.Name, "name", "", "Project name")
	fs.StringVar(&pf.in.Description, "description", "", "Description")
	fs.Var(&pf.status, "status", "Project status")
	fs.Var(&pf.start, "start", "Start date (YYYY-MM-DD)")
	fs.Var(&pf.end, "end", "End date (YYYY-MM-DD)")
	fs.StringVar(&pf.in.Team, "team", "", "Owning team")
	fs.StringVar(&pf.in.Region, "region", "", "Region")
	fs.StringVar(&pf.in.FundingStatus, "funding", "", "Funding status")
	fs.StringVar(&pf.in.ProjectType, "type", "", "Project type")
	fs.StringVar(&pf.in.BudgetType, "budget", "", "Budget type")
	fs.StringVar(&pf.in.Justification, "justification", "", "Justification")
}

// apply copies the flags the user set onto base.
func (pf *projectFlags) apply(fs *pflag.FlagSet, base service.ProjectInput) service.ProjectInput {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "name":
			base.Name = pf.in.Name
		case "description":
			base.Description = pf.in.Description
		case "status":
			base.Status = pf.status.status
		case "start":
			base.StartDate = pf.start.Value()
		case "end":
			base.EndDate = pf.end.Value()
		case "team":
			base.Team = pf.in.Team
		case "region":
			base.Region = pf.in.Region
		case "funding":
			base.FundingStatus = pf.in.FundingStatus
		case "type":
			base.ProjectType = pf.in.ProjectType
		case "budget":
			base.BudgetType = pf.in.BudgetType
		case "justification":
			base.Justification = pf.in.Justification
		}
	})
	return base
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var pf projectFlags

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create a project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := pf.apply(cmd.Flags(), service.ProjectInput{})
			if in.Name == "" && app.interactive() {
				ref := app.Plan.Reference()
				if err := projectForm(&in, ref.Teams(), ref.Regions()).Run(); err != nil {
					return err
				}
			}

			p, err := app.Plan.CreateProject(cmdContext(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.Code)
			return nil
		},
	}

	pf.register(cmd.Flags())

	return cmd
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var pf projectFlags

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Update a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(app, args[0])
			if err != nil {
				return err
			}
			in := pf.apply(cmd.Flags(), service.ProjectInputFrom(p))

			updated, err := app.Plan.UpdateProject(cmdContext(cmd), p.ID, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s [%s]\n", updated.Name, updated.Code)
			return nil
		},
	}

	pf.register(cmd.Flags())

	return cmd
}
