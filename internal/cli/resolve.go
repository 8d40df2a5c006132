package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/service"
)

// resolveProject finds a project by code (case-insensitive), exact ID or a
// unique ID prefix.
func resolveProject(app *App, input string) (*domain.Project, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("project is required")
	}
	if p, err := app.Plan.ProjectByCode(strings.ToUpper(input)); err == nil {
		return p, nil
	}
	if p, err := app.Plan.Project(input); err == nil {
		return p, nil
	}

	var matches []*domain.Project
	for _, p := range app.Plan.Projects() {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", service.ErrProjectNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous project %q matches %d projects", input, len(matches))
	}
}

// resolveAction finds an action of p by exact ID or unique ID prefix.
func resolveAction(p *domain.Project, input string) (domain.Action, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return domain.Action{}, fmt.Errorf("action is required")
	}
	if i := p.FindAction(input); i >= 0 {
		return p.Actions[i], nil
	}

	var matches []domain.Action
	for _, a := range p.Actions {
		if strings.HasPrefix(a.ID, input) {
			matches = append(matches, a)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Action{}, fmt.Errorf("%w: %s in %s", service.ErrActionNotFound, input, p.Code)
	case 1:
		return matches[0], nil
	default:
		return domain.Action{}, fmt.Errorf("ambiguous action %q matches %d actions", input, len(matches))
	}
}

// resolveCustomAction finds a custom action by exact ID, unique ID prefix or
// exact name.
func resolveCustomAction(app *App, input string) (domain.CustomAction, error) {
	input = strings.TrimSpace(input)
	if c, err := app.Plan.CustomAction(input); err == nil {
		return c, nil
	}
	var matches []domain.CustomAction
	for _, c := range app.Plan.CustomActions() {
		if strings.HasPrefix(c.ID, input) || strings.EqualFold(c.Name, input) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return domain.CustomAction{}, fmt.Errorf("%w: %s", service.ErrCustomActionNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return domain.CustomAction{}, fmt.Errorf("ambiguous custom action %q matches %d entries", input, len(matches))
	}
}
