package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
)

// ProjectInput is the editable part of a project. Empty status and
// classification fields fall back to their defaults.
type ProjectInput struct {
	Name          string
	Description   string
	Status        domain.ProjectStatus
	StartDate     *time.Time
	EndDate       *time.Time
	Team          string
	Region        string
	FundingStatus string
	ProjectType   string
	BudgetType    string
	Justification string
}

// ProjectInputFrom returns the editable fields of p, for callers that change
// only some of them.
func ProjectInputFrom(p *domain.Project) ProjectInput {
	return ProjectInput{
		Name:          p.Name,
		Description:   p.Description,
		Status:        p.Status,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Team:          p.Team,
		Region:        p.Region,
		FundingStatus: p.FundingStatus,
		ProjectType:   p.ProjectType,
		BudgetType:    p.BudgetType,
		Justification: p.Justification,
	}
}

func (in ProjectInput) applyTo(p *domain.Project) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Status = domain.ProjectStatus(domain.CoalesceStr(string(in.Status), string(domain.ProjectPlanning)))
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.Team = in.Team
	p.Region = in.Region
	p.FundingStatus = domain.CoalesceStr(in.FundingStatus, domain.DefaultFundingStatus)
	p.ProjectType = domain.CoalesceStr(in.ProjectType, domain.DefaultProjectType)
	p.BudgetType = domain.CoalesceStr(in.BudgetType, domain.DefaultBudgetType)
	p.Justification = in.Justification
}

// CreateProject stores a new project with the next PROJ-<year>-<seq> code of
// the current year.
func (s *PlanService) CreateProject(ctx context.Context, in ProjectInput) (p *domain.Project, err error) {
	fields := map[string]any{"name": in.Name}
	done := s.track(ctx, "create-project", fields)
	defer func() { done(err) }()

	now := s.now()
	p = &domain.Project{
		ID:           s.planner.NewID(),
		CreatedBy:    s.actor,
		CreatedAt:    now,
		LastModified: now,
	}
	in.applyTo(p)
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}
	planning.Recompute(p, s.ref)

	next := s.state.clone()
	next.Projects = append(next.Projects, p)
	err = s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		seq, err := r.codes.NextCodeSeq(ctx, now.Year())
		if err != nil {
			return err
		}
		p.Code = domain.ProjectCode(now.Year(), seq)
		return r.projects.Create(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	fields["code"] = p.Code
	return p, nil
}

// UpdateProject replaces the editable fields of a project and records one
// audit entry per changed field. The renewals project cannot be edited.
func (s *PlanService) UpdateProject(ctx context.Context, id string, in ProjectInput) (p *domain.Project, err error) {
	fields := map[string]any{"project_id": id}
	done := s.track(ctx, "update-project", fields)
	defer func() { done(err) }()

	current, err := s.Project(id)
	if err != nil {
		return nil, err
	}
	if current.IsSystem() {
		return nil, ErrSystemProject
	}

	next := s.state.clone()
	p, _ = next.mutableProject(id)
	in.applyTo(p)
	if err := p.Validate(); err != nil {
		return nil, invalid(err)
	}
	p.LastModified = s.now()

	entries := s.diff(domain.EntityProject, p.ID, projectFields(current), projectFields(p))
	next.Audit = append(next.Audit, entries...)
	fields["changed_fields"] = len(entries)

	err = s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		if err := r.projects.Update(ctx, p); err != nil {
			return err
		}
		return r.audit.Append(ctx, entries...)
	})
	if err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return p, nil
}

// Project list tabs.
const (
	TabAll      = "all"
	TabArchived = "archived"
)

// ProjectFilter selects projects for the project list. Zero fields match
// everything.
type ProjectFilter struct {
	// Tab "all" hides archived projects; "archived" shows only them.
	Tab string
	// Search matches name, description or region, case-insensitively.
	Search string
	Status domain.ProjectStatus
	Team   string
	Region string
}

// FilterProjects returns the projects matching f, in list order.
func (s *PlanService) FilterProjects(f ProjectFilter) []*domain.Project {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*domain.Project
	for _, p := range s.state.Projects {
		archived := p.Status == domain.ProjectArchived
		if f.Tab == TabArchived && !archived {
			continue
		}
		if f.Tab == TabAll && archived {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) &&
			!strings.Contains(strings.ToLower(p.Region), needle) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Team != "" && p.Team != f.Team {
			continue
		}
		if f.Region != "" && p.Region != f.Region {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Renewals project constants.
const (
	RenewalsName        = "Asset Renewals"
	RenewalsDescription = "Automatically generated lifecycle-based renewal actions"
	RenewalsTeam        = "System Generated"
	RenewalsRegion      = "All Regions"
	RenewalsCreator     = "system"
)

func (s *PlanService) newRenewalsProject() *domain.Project {
	now := s.now()
	return &domain.Project{
		ID:            domain.RenewalsProjectID,
		Code:          "RENEWALS-" + strconv.Itoa(now.Year()),
		Name:          RenewalsName,
		Description:   RenewalsDescription,
		Status:        domain.ProjectPlanning,
		Team:          RenewalsTeam,
		Region:        RenewalsRegion,
		FundingStatus: domain.DefaultFundingStatus,
		ProjectType:   domain.DefaultProjectType,
		BudgetType:    domain.DefaultBudgetType,
		CreatedBy:     RenewalsCreator,
		CreatedAt:     now,
		LastModified:  now,
	}
}
