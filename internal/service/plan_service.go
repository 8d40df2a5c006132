package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
	"github.com/alexanderramin/capplan/internal/refdata"
	"github.com/alexanderramin/capplan/internal/repository"
)

// PlanService is the application controller. It owns the current State and
// is the only writer of the store. Every mutation validates, builds the next
// State from a clone, persists the change in one transaction and only then
// publishes the new State, so a failed call leaves both untouched.
//
// PlanService is not safe for concurrent use.
type PlanService struct {
	ref      *refdata.Dataset
	planner  *planning.Planner
	uow      db.UnitOfWork
	actor    string
	observer UseCaseObserver
	state    *State
}

func NewPlanService(
	ref *refdata.Dataset,
	planner *planning.Planner,
	uow db.UnitOfWork,
	actor string,
	observers ...UseCaseObserver,
) *PlanService {
	return &PlanService{
		ref:      ref,
		planner:  planner,
		uow:      uow,
		actor:    domain.CoalesceStr(actor, domain.DefaultActor),
		observer: useCaseObserverOrNoop(observers),
		state:    &State{},
	}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	projects repository.ProjectRepo
	actions  repository.ActionRepo
	audit    repository.AuditRepo
	archives repository.ArchiveRepo
	custom   repository.CustomActionRepo
	codes    repository.CodeSequenceRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		projects: repository.NewSQLiteProjectRepo(tx),
		actions:  repository.NewSQLiteActionRepo(tx),
		audit:    repository.NewSQLiteAuditRepo(tx),
		archives: repository.NewSQLiteArchiveRepo(tx),
		custom:   repository.NewKVCustomActionRepo(repository.NewSQLiteKVStore(tx)),
		codes:    repository.NewSQLiteCodeSequenceRepo(tx),
	}
}

// commit persists a mutation and publishes next once the transaction has
// committed.
func (s *PlanService) commit(ctx context.Context, next *State, persist func(ctx context.Context, r txRepos) error) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return persist(ctx, newTxRepos(tx))
	})
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// persistProject writes a project header and its full action list.
func persistProject(ctx context.Context, r txRepos, p *domain.Project) error {
	if err := r.projects.Update(ctx, p); err != nil {
		return err
	}
	return r.actions.ReplaceForProject(ctx, p.ID, p.Actions)
}

// now is the planner clock truncated to the precision the store keeps.
func (s *PlanService) now() time.Time {
	return s.planner.Now().UTC().Truncate(time.Second)
}

// Load reads the complete state from the store, creating the renewals
// project on first use, and recomputes every project rollup.
func (s *PlanService) Load(ctx context.Context) (err error) {
	fields := map[string]any{}
	done := s.track(ctx, "load", fields)
	defer func() { done(err) }()

	st := &State{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)

		projects, err := r.projects.List(ctx)
		if err != nil {
			return err
		}
		actions, err := r.actions.ListAll(ctx)
		if err != nil {
			return err
		}
		byProject := make(map[string][]domain.Action, len(projects))
		for _, a := range actions {
			byProject[a.ProjectID] = append(byProject[a.ProjectID], a)
		}

		var renewals *domain.Project
		var others []*domain.Project
		for _, p := range projects {
			p.Actions = byProject[p.ID]
			if p.IsSystem() {
				renewals = p
				continue
			}
			others = append(others, p)
		}
		if renewals == nil {
			renewals = s.newRenewalsProject()
			if err := r.projects.Create(ctx, renewals); err != nil {
				return fmt.Errorf("creating renewals project: %w", err)
			}
		}
		st.Projects = append([]*domain.Project{renewals}, others...)

		if st.CustomActions, err = r.custom.List(ctx); err != nil {
			return err
		}
		if st.Audit, err = r.audit.List(ctx); err != nil {
			return err
		}
		if st.Archives, err = r.archives.List(ctx); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading plan: %w", err)
	}

	actionCount := 0
	for _, p := range st.Projects {
		planning.Recompute(p, s.ref)
		actionCount += len(p.Actions)
	}
	fields["projects"] = len(st.Projects)
	fields["actions"] = actionCount
	s.state = st
	return nil
}

// Reference returns the reference dataset the service plans against.
func (s *PlanService) Reference() *refdata.Dataset {
	return s.ref
}

// Planner returns the planning rules in use.
func (s *PlanService) Planner() *planning.Planner {
	return s.planner
}

// Actor is the name recorded on changes made through this service.
func (s *PlanService) Actor() string {
	return s.actor
}

// Projects returns every project, renewals first. The returned projects are
// shared with the service and must not be modified.
func (s *PlanService) Projects() []*domain.Project {
	return s.state.Projects
}

// Project returns the project with the given ID. The result must not be
// modified.
func (s *PlanService) Project(id string) (*domain.Project, error) {
	i := s.state.projectIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return s.state.Projects[i], nil
}

// ProjectByCode finds a project by its human code, case-sensitively.
func (s *PlanService) ProjectByCode(code string) (*domain.Project, error) {
	for _, p := range s.state.Projects {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, code)
}

// invalid turns a domain rule violation into a user-facing validation error.
func invalid(err error) error {
	return &planning.ValidationError{Msg: err.Error()}
}
