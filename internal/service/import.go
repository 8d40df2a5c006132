package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/planning"
)

// ImportResult counts what ImportSeed stored.
type ImportResult struct {
	Projects     int
	Actions      int
	AuditEntries int
}

// ImportSeed stores previously exported projects, actions and audit history.
// It is allowed once: a store that already holds user projects is rejected
// with ErrAlreadyImported. Seed actions of the renewals project are merged
// into the existing renewals project.
func (s *PlanService) ImportSeed(ctx context.Context, seed *importer.Seed) (res ImportResult, err error) {
	fields := map[string]any{}
	done := s.track(ctx, "import-seed", fields)
	defer func() { done(err) }()

	for _, p := range s.state.Projects {
		if !p.IsSystem() {
			return ImportResult{}, ErrAlreadyImported
		}
	}

	next := s.state.clone()
	var renewals *domain.Project
	if len(next.Projects) > 0 {
		renewals, _ = next.mutableProject(domain.RenewalsProjectID)
	}

	var created []*domain.Project
	for _, sp := range seed.Projects {
		if sp.IsSystem() && renewals != nil {
			for _, a := range sp.Actions {
				if renewals.FindAction(a.ID) >= 0 {
					return ImportResult{}, planning.Invalidf("Action %q is already in the renewals project", a.ID)
				}
				a.ProjectID = renewals.ID
				renewals.Actions = append(renewals.Actions, a)
			}
			res.Actions += len(sp.Actions)
			continue
		}
		for _, p := range next.Projects {
			if p.ID == sp.ID || p.Code == sp.Code {
				return ImportResult{}, planning.Invalidf("Project %q (%s) already exists", sp.ID, sp.Code)
			}
		}
		p := sp.Clone()
		planning.Recompute(p, s.ref)
		next.Projects = append(next.Projects, p)
		created = append(created, p)
		res.Projects++
		res.Actions += len(p.Actions)
	}
	if renewals != nil {
		planning.Recompute(renewals, s.ref)
	}
	next.Audit = append(next.Audit, seed.Audit...)
	res.AuditEntries = len(seed.Audit)

	err = s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		for _, p := range created {
			if err := r.projects.Create(ctx, p); err != nil {
				return err
			}
			if err := r.actions.ReplaceForProject(ctx, p.ID, p.Actions); err != nil {
				return err
			}
		}
		if renewals != nil {
			if err := r.actions.ReplaceForProject(ctx, renewals.ID, renewals.Actions); err != nil {
				return err
			}
		}
		if err := r.audit.Append(ctx, seed.Audit...); err != nil {
			return err
		}
		return r.codes.RaiseFromProjects(ctx)
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("importing seed data: %w", err)
	}
	fields["projects"] = res.Projects
	fields["actions"] = res.Actions
	fields["audit_entries"] = res.AuditEntries
	return res, nil
}
