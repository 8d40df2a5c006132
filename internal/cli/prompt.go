package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func capplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(capplanHuhTheme()).WithShowHelp(false)
}

var errNeedsYes = errors.New("refusing to continue without confirmation; pass --yes")

// confirm gates destructive commands. --yes skips the prompt; without a
// terminal the command fails rather than guessing.
func confirm(app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if app.Confirm != nil {
		return app.Confirm(title)
	}
	if !app.interactive() {
		return false, errNeedsYes
	}
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return ok, nil
}

// projectForm asks for the fields of a new project. Team and region are
// offered from the reference data.
func projectForm(in *service.ProjectInput, teams, regions []string) *huh.Form {
	if in.Status == "" {
		in.Status = domain.ProjectPlanning
	}
	statuses := make([]domain.ProjectStatus, 0, len(domain.ValidProjectStatuses))
	for s := range domain.ValidProjectStatuses {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })

	fields := []huh.Field{
		huh.NewInput().
			Title("Project name").
			Value(&in.Name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
		huh.NewInput().Title("Description").Value(&in.Description),
		huh.NewSelect[domain.ProjectStatus]().
			Title("Status").
			Options(huh.NewOptions(statuses...)...).
			Value(&in.Status),
	}
	if len(teams) > 0 {
		fields = append(fields, huh.NewSelect[string]().Title("Team").Options(huh.NewOptions(teams...)...).Value(&in.Team))
	}
	if len(regions) > 0 {
		fields = append(fields, huh.NewSelect[string]().Title("Region").Options(huh.NewOptions(regions...)...).Value(&in.Region))
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(capplanHuhTheme()).WithShowHelp(false)
}
