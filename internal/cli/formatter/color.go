package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ProjectStatusPill returns a colored status indicator for a project.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectPlanning:
		return StyleBlue.Render("○ Planning")
	case domain.ProjectOpen:
		return StyleFg.Render("○ Open")
	case domain.ProjectInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectCancelled:
		return StyleRed.Render("⊘ Cancelled")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// ActionStatusPill returns a colored status indicator for an action.
func ActionStatusPill(status domain.ActionStatus) string {
	switch status {
	case domain.ActionOpen:
		return StyleFg.Render("○ Open")
	case domain.ActionPlanning:
		return StyleBlue.Render("○ Planning")
	case domain.ActionInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.ActionCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ActionCancelled:
		return StyleRed.Render("⊘ Cancelled")
	case domain.ActionArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
