package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// CustomActionInput is the custom action form.
type CustomActionInput struct {
	Name        string
	Description string
	Cost        float64
	Unit        string
	Lifecycle   int
	Category    string
}

func (in CustomActionInput) applyTo(c *domain.CustomAction) {
	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Cost = in.Cost
	c.Unit = domain.CoalesceStr(in.Unit, "Each")
	c.Lifecycle = in.Lifecycle
	c.Category = domain.CoalesceStr(in.Category, domain.DefaultCustomCategory)
}

// CustomActions returns the user-defined actions in creation order.
func (s *PlanService) CustomActions() []domain.CustomAction {
	return s.state.CustomActions
}

// CustomAction returns the custom action with the given ID.
func (s *PlanService) CustomAction(id string) (domain.CustomAction, error) {
	c, i := s.state.customAction(id)
	if i < 0 {
		return domain.CustomAction{}, fmt.Errorf("%w: %s", ErrCustomActionNotFound, id)
	}
	return c, nil
}

func (s *PlanService) saveCustomActions(ctx context.Context, next *State) error {
	return s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		return r.custom.SaveAll(ctx, next.CustomActions)
	})
}

// CreateCustomAction adds a user-defined action.
func (s *PlanService) CreateCustomAction(ctx context.Context, in CustomActionInput) (c domain.CustomAction, err error) {
	fields := map[string]any{"name": in.Name}
	done := s.track(ctx, "create-custom-action", fields)
	defer func() { done(err) }()

	c = domain.CustomAction{ID: s.planner.NewID(), UpdatedAt: s.now()}
	in.applyTo(&c)
	if err := c.Validate(); err != nil {
		return domain.CustomAction{}, invalid(err)
	}

	next := s.state.clone()
	next.CustomActions = append(next.CustomActions, c)
	if err := s.saveCustomActions(ctx, next); err != nil {
		return domain.CustomAction{}, fmt.Errorf("creating custom action: %w", err)
	}
	fields["custom_action_id"] = c.ID
	return c, nil
}

// UpdateCustomAction replaces the fields of a custom action. Actions already
// planned with it keep the name and cost they were created with.
func (s *PlanService) UpdateCustomAction(ctx context.Context, id string, in CustomActionInput) (c domain.CustomAction, err error) {
	done := s.track(ctx, "update-custom-action", map[string]any{"custom_action_id": id})
	defer func() { done(err) }()

	c, i := s.state.customAction(id)
	if i < 0 {
		return domain.CustomAction{}, fmt.Errorf("%w: %s", ErrCustomActionNotFound, id)
	}
	in.applyTo(&c)
	c.UpdatedAt = s.now()
	if err := c.Validate(); err != nil {
		return domain.CustomAction{}, invalid(err)
	}

	next := s.state.clone()
	next.CustomActions[i] = c
	if err := s.saveCustomActions(ctx, next); err != nil {
		return domain.CustomAction{}, fmt.Errorf("updating custom action: %w", err)
	}
	return c, nil
}

// DeleteCustomAction removes a custom action. It does nothing and returns
// ErrConfirmationRequired unless confirmed is true.
func (s *PlanService) DeleteCustomAction(ctx context.Context, id string, confirmed bool) (err error) {
	done := s.track(ctx, "delete-custom-action", map[string]any{"custom_action_id": id})
	defer func() { done(err) }()

	if !confirmed {
		return ErrConfirmationRequired
	}
	_, i := s.state.customAction(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCustomActionNotFound, id)
	}

	next := s.state.clone()
	next.CustomActions = append(next.CustomActions[:i:i], next.CustomActions[i+1:]...)
	if err := s.saveCustomActions(ctx, next); err != nil {
		return fmt.Errorf("deleting custom action: %w", err)
	}
	return nil
}
