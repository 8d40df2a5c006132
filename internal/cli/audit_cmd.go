package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/spf13/cobra"
)

func newAuditCmd(app *App) *cobra.Command {
	var (
		entity string
		id     string
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail of project and action changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f service.AuditFilter
			switch strings.ToLower(entity) {
			case "":
			case "project":
				f.EntityType = domain.EntityProject
			case "action":
				f.EntityType = domain.EntityAction
			default:
				return fmt.Errorf("entity must be %q or %q", "project", "action")
			}
			f.EntityID = id
			if f.EntityType == domain.EntityProject && id != "" {
				if p, err := resolveProject(app, id); err == nil {
					f.EntityID = p.ID
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAuditTrail(app.Plan.AuditTrail(f)))
			return nil
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "Only show project or action changes")
	cmd.Flags().StringVar(&id, "id", "", "Only show changes to this entity")

	return cmd
}

func newArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Show actions archived on completion or archival",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatArchives(app.Plan.Archives()))
			return nil
		},
	}
}
