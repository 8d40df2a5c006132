package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
)

// SQLiteAuditRepo implements AuditRepo. The table rejects updates and
// deletes, so the repo only offers Append.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(conn db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: conn}
}

const auditColumns = `id, entity_type, entity_id, field, old_value, new_value, changed_by, changed_at`

func (r *SQLiteAuditRepo) Append(ctx context.Context, entries ...domain.AuditEntry) error {
	query := `INSERT INTO audit_entries (` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, e := range entries {
		_, err := r.db.ExecContext(ctx, query,
			e.ID,
			string(e.EntityType),
			e.EntityID,
			e.Field,
			e.OldValue,
			e.NewValue,
			e.ChangedBy,
			e.ChangedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting audit entry: %w", err)
		}
	}
	return nil
}

func (r *SQLiteAuditRepo) List(ctx context.Context) ([]domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_entries ORDER BY changed_at, rowid`
	return r.query(ctx, query)
}

func (r *SQLiteAuditRepo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.AuditEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_entries
		WHERE entity_type = ? AND entity_id = ? ORDER BY changed_at, rowid`
	return r.query(ctx, query, string(entityType), entityID)
}

func (r *SQLiteAuditRepo) query(ctx context.Context, query string, args ...any) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var entityType, changedAt string
		if err := rows.Scan(&e.ID, &entityType, &e.EntityID, &e.Field, &e.OldValue, &e.NewValue, &e.ChangedBy, &changedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.EntityType = domain.EntityType(entityType)
		if e.ChangedAt, err = parseStamp(changedAt); err != nil {
			return nil, fmt.Errorf("parsing changed_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
