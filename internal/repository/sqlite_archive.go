package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
)

// SQLiteArchiveRepo implements ArchiveRepo. Each entry stores a JSON snapshot
// of the action as it was when archived.
type SQLiteArchiveRepo struct {
	db db.DBTX
}

func NewSQLiteArchiveRepo(conn db.DBTX) *SQLiteArchiveRepo {
	return &SQLiteArchiveRepo{db: conn}
}

func (r *SQLiteArchiveRepo) Append(ctx context.Context, entries ...domain.ArchiveEntry) error {
	query := `INSERT INTO archive_entries (id, reason, action_id, project_id, snapshot, archived_at, archived_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, e := range entries {
		snapshot, err := json.Marshal(toActionRecord(&e.Action))
		if err != nil {
			return fmt.Errorf("encoding archive snapshot: %w", err)
		}
		_, err = r.db.ExecContext(ctx, query,
			e.ID,
			string(e.Reason),
			e.Action.ID,
			e.Action.ProjectID,
			string(snapshot),
			e.At.UTC().Format(time.RFC3339),
			e.By,
		)
		if err != nil {
			return fmt.Errorf("inserting archive entry: %w", err)
		}
	}
	return nil
}

func (r *SQLiteArchiveRepo) List(ctx context.Context) ([]domain.ArchiveEntry, error) {
	query := `SELECT id, reason, snapshot, archived_at, archived_by FROM archive_entries ORDER BY archived_at, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing archive entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.ArchiveEntry
	for rows.Next() {
		var e domain.ArchiveEntry
		var reason, snapshot, at string
		if err := rows.Scan(&e.ID, &reason, &snapshot, &at, &e.By); err != nil {
			return nil, fmt.Errorf("scanning archive entry: %w", err)
		}
		e.Reason = domain.ArchiveReason(reason)

		var rec actionRecord
		if err := json.Unmarshal([]byte(snapshot), &rec); err != nil {
			return nil, fmt.Errorf("decoding archive snapshot %s: %w", e.ID, err)
		}
		if e.Action, err = rec.toAction(); err != nil {
			return nil, fmt.Errorf("archive entry %s: %w", e.ID, err)
		}
		if e.At, err = parseStamp(at); err != nil {
			return nil, fmt.Errorf("parsing archived_at: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archive entries: %w", err)
	}
	return entries, nil
}
