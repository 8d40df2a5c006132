package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/capplan/internal/db"
)

// SQLiteCodeSequenceRepo allocates the per-year sequence behind project codes
// (PROJ-<year>-<seq>) atomically using the project_code_sequences table.
type SQLiteCodeSequenceRepo struct {
	db db.DBTX
}

func NewSQLiteCodeSequenceRepo(conn db.DBTX) *SQLiteCodeSequenceRepo {
	return &SQLiteCodeSequenceRepo{db: conn}
}

// NextCodeSeq returns the next sequence number for year. The first call for a
// year seeds the counter from the highest code of that year already stored,
// so imported projects are never reissued.
func (r *SQLiteCodeSequenceRepo) NextCodeSeq(ctx context.Context, year int) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO project_code_sequences (year, next_seq)
		SELECT ?, COALESCE(MAX(CAST(substr(code, 11) AS INTEGER)), 0) + 1
		FROM projects
		WHERE code GLOB 'PROJ-' || ? || '-[0-9]*'`
	if _, err := r.db.ExecContext(ctx, seedQuery, year, fmt.Sprintf("%04d", year)); err != nil {
		return 0, fmt.Errorf("seeding code sequence for %d: %w", year, err)
	}

	var next int
	allocQuery := `UPDATE project_code_sequences
		SET next_seq = next_seq + 1
		WHERE year = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next code seq for %d: %w", year, err)
	}
	return next, nil
}

// RaiseFromProjects lifts every year's counter above the highest stored code
// of that year. Counters never decrease.
func (r *SQLiteCodeSequenceRepo) RaiseFromProjects(ctx context.Context) error {
	query := `INSERT INTO project_code_sequences (year, next_seq)
		SELECT CAST(substr(code, 6, 4) AS INTEGER), MAX(CAST(substr(code, 11) AS INTEGER)) + 1
		FROM projects
		WHERE code GLOB 'PROJ-[0-9][0-9][0-9][0-9]-[0-9]*'
		GROUP BY substr(code, 6, 4)
		ON CONFLICT(year) DO UPDATE
		SET next_seq = MAX(project_code_sequences.next_seq, excluded.next_seq)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("raising project code sequences: %w", err)
	}
	return nil
}
