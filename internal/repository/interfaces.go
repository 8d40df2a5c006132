package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/capplan/internal/domain"
)

// ErrNotFound is returned when a row looked up by key does not exist.
var ErrNotFound = errors.New("not found")

// ProjectRepo stores project headers. Actions live in ActionRepo.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type ActionRepo interface {
	ListByProject(ctx context.Context, projectID string) ([]domain.Action, error)
	ListAll(ctx context.Context) ([]domain.Action, error)
	// ReplaceForProject makes actions the complete, ordered action list of
	// the project.
	ReplaceForProject(ctx context.Context, projectID string, actions []domain.Action) error
}

// AuditRepo is append-only.
type AuditRepo interface {
	Append(ctx context.Context, entries ...domain.AuditEntry) error
	List(ctx context.Context) ([]domain.AuditEntry, error)
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.AuditEntry, error)
}

// ArchiveRepo is append-only.
type ArchiveRepo interface {
	Append(ctx context.Context, entries ...domain.ArchiveEntry) error
	List(ctx context.Context) ([]domain.ArchiveEntry, error)
}

// KVStore is a simple string key-value store scoped to one database.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type CustomActionRepo interface {
	List(ctx context.Context) ([]domain.CustomAction, error)
	SaveAll(ctx context.Context, actions []domain.CustomAction) error
}

// CodeSequenceRepo allocates per-year project code sequence numbers.
type CodeSequenceRepo interface {
	NextCodeSeq(ctx context.Context, year int) (int, error)
	// RaiseFromProjects moves counters past codes inserted directly, such as
	// imported projects.
	RaiseFromProjects(ctx context.Context) error
}
