package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillCodeSequences(db); err != nil {
		return fmt.Errorf("backfilling project code sequences: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id             TEXT PRIMARY KEY,
		code           TEXT NOT NULL,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		status         TEXT NOT NULL DEFAULT 'Planning'
		               CHECK(status IN ('Open','In Progress','Completed','Cancelled','Planning','Archived')),
		start_date     TEXT,
		end_date       TEXT,
		team           TEXT NOT NULL DEFAULT '',
		region         TEXT NOT NULL DEFAULT '',
		funding_status TEXT NOT NULL DEFAULT 'Unfunded',
		project_type   TEXT NOT NULL DEFAULT 'New Asset',
		budget_type    TEXT NOT NULL DEFAULT 'Single Year',
		justification  TEXT NOT NULL DEFAULT '',
		created_by     TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_code ON projects(code)`,

	`CREATE TABLE IF NOT EXISTS project_code_sequences (
		year     INTEGER PRIMARY KEY,
		next_seq INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS actions (
		id                 TEXT PRIMARY KEY,
		project_id         TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		series_id          TEXT NOT NULL DEFAULT '',
		order_index        INTEGER NOT NULL DEFAULT 0,
		name               TEXT NOT NULL DEFAULT '',
		asset_id           TEXT NOT NULL DEFAULT '',
		planned_asset_name TEXT NOT NULL DEFAULT '',
		action_path        TEXT NOT NULL DEFAULT '',
		custom_action_id   TEXT NOT NULL DEFAULT '',
		custom_action_name TEXT NOT NULL DEFAULT '',
		custom_action_cost REAL,
		status             TEXT NOT NULL DEFAULT 'Open'
		                   CHECK(status IN ('Open','In Progress','Completed','Cancelled','Planning','Archived')),
		next_due           TEXT,
		override_date      TEXT,
		recurrence         INTEGER NOT NULL DEFAULT 0,
		recurrence_value   INTEGER NOT NULL DEFAULT 0,
		recurrence_unit    TEXT NOT NULL DEFAULT '',
		asset_percentage   INTEGER NOT NULL DEFAULT 100,
		asset_size         REAL,
		unit_of_measure    TEXT NOT NULL DEFAULT '',
		adjustment_factor  REAL,
		modeled_cost       INTEGER NOT NULL DEFAULT 0,
		override_cost      INTEGER,
		cost               INTEGER NOT NULL DEFAULT 0,
		created_by         TEXT NOT NULL DEFAULT '',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		completed_date     TEXT,
		CHECK((asset_id = '') <> (planned_asset_name = ''))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_actions_project ON actions(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_actions_series ON actions(series_id)`,

	`CREATE TABLE IF NOT EXISTS audit_entries (
		id          TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL CHECK(entity_type IN ('Project','Action')),
		entity_id   TEXT NOT NULL,
		field       TEXT NOT NULL,
		old_value   TEXT NOT NULL DEFAULT '',
		new_value   TEXT NOT NULL DEFAULT '',
		changed_by  TEXT NOT NULL DEFAULT '',
		changed_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_entries(entity_type, entity_id)`,

	// Audit and archive rows are append-only.
	`CREATE TRIGGER IF NOT EXISTS audit_entries_no_update BEFORE UPDATE ON audit_entries
	BEGIN SELECT RAISE(ABORT, 'audit entries are append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS audit_entries_no_delete BEFORE DELETE ON audit_entries
	BEGIN SELECT RAISE(ABORT, 'audit entries are append-only'); END`,

	`CREATE TABLE IF NOT EXISTS archive_entries (
		id          TEXT PRIMARY KEY,
		reason      TEXT NOT NULL CHECK(reason IN ('Completed','Archived','Deleted')),
		action_id   TEXT NOT NULL,
		project_id  TEXT NOT NULL,
		snapshot    TEXT NOT NULL,
		archived_at TEXT NOT NULL,
		archived_by TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_archive_action ON archive_entries(action_id)`,

	`CREATE TRIGGER IF NOT EXISTS archive_entries_no_update BEFORE UPDATE ON archive_entries
	BEGIN SELECT RAISE(ABORT, 'archive entries are append-only'); END`,
	`CREATE TRIGGER IF NOT EXISTS archive_entries_no_delete BEFORE DELETE ON archive_entries
	BEGIN SELECT RAISE(ABORT, 'archive entries are append-only'); END`,

	`CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}

// migrateBackfillCodeSequences seeds (or raises) the per-year allocator from
// project codes already present, e.g. rows imported from seed data.
// Idempotent: next_seq only ever grows.
func migrateBackfillCodeSequences(db *sql.DB) error {
	ctx := context.Background()

	query := `INSERT INTO project_code_sequences (year, next_seq)
		SELECT CAST(substr(code, 6, 4) AS INTEGER), MAX(CAST(substr(code, 11) AS INTEGER)) + 1
		FROM projects
		WHERE code GLOB 'PROJ-[0-9][0-9][0-9][0-9]-[0-9]*'
		GROUP BY substr(code, 6, 4)
		ON CONFLICT(year) DO UPDATE
		SET next_seq = MAX(project_code_sequences.next_seq, excluded.next_seq)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upserting project code sequence rows: %w", err)
	}
	return nil
}
