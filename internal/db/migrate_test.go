package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const insertProject = `INSERT INTO projects (id, code, name, status, created_at, updated_at)
	VALUES (?, ?, 'Test', 'Planning', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// A second run is a no-op.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "project_code_sequences", "actions", "audit_entries", "archive_entries", "kv_store"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_code",
		"idx_actions_project",
		"idx_actions_series",
		"idx_audit_entity",
		"idx_archive_action",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_ProjectStatusCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, code, name, status, created_at, updated_at)
		VALUES ('p1', 'PROJ-2026-001', 'Test', 'active', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid project status should be rejected by CHECK constraint")

	_, err = db.Exec(insertProject, "p1", "PROJ-2026-001")
	assert.NoError(t, err)

	_, err = db.Exec(insertProject, "p2", "PROJ-2026-001")
	assert.Error(t, err, "project codes are unique")
}

func TestMigrate_ActionTargetExclusive(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(insertProject, "p1", "PROJ-2026-001")
	require.NoError(t, err)

	insert := `INSERT INTO actions (id, project_id, asset_id, planned_asset_name, created_at, updated_at)
		VALUES (?, 'p1', ?, ?, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`

	_, err = db.Exec(insert, "a1", "TREE-001", "")
	assert.NoError(t, err)
	_, err = db.Exec(insert, "a2", "", "New Grove")
	assert.NoError(t, err)
	_, err = db.Exec(insert, "a3", "TREE-001", "New Grove")
	assert.Error(t, err, "asset and planned name are mutually exclusive")
	_, err = db.Exec(insert, "a4", "", "")
	assert.Error(t, err, "one of asset or planned name is required")
}

func TestMigrate_ActionsCascadeWithProject(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(insertProject, "p1", "PROJ-2026-001")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO actions (id, project_id, asset_id, created_at, updated_at)
		VALUES ('a1', 'p1', 'TREE-001', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM actions`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_AuditEntriesAppendOnly(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO audit_entries (id, entity_type, entity_id, field, changed_at)
		VALUES ('e1', 'Action', 'a1', 'status', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE audit_entries SET field = 'cost' WHERE id = 'e1'`)
	assert.Error(t, err)
	_, err = db.Exec(`DELETE FROM audit_entries WHERE id = 'e1'`)
	assert.Error(t, err)
}

func TestMigrate_ArchiveEntriesAppendOnly(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO archive_entries (id, reason, action_id, project_id, snapshot, archived_at)
		VALUES ('r1', 'Deleted', 'a1', 'p1', '{}', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE archive_entries SET reason = 'Completed' WHERE id = 'r1'`)
	assert.Error(t, err)
	_, err = db.Exec(`DELETE FROM archive_entries WHERE id = 'r1'`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO archive_entries (id, reason, action_id, project_id, snapshot, archived_at)
		VALUES ('r2', 'Lost', 'a1', 'p1', '{}', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown archive reason")
}

func TestMigrate_BackfillsCodeSequences(t *testing.T) {
	db := openTestDB(t)

	for i, code := range []string{"PROJ-2024-001", "PROJ-2024-007", "PROJ-2025-002", "RENEWALS-2024"} {
		_, err := db.Exec(insertProject, string(rune('a'+i)), code)
		require.NoError(t, err)
	}
	require.NoError(t, Migrate(db))

	next := map[int]int{}
	rows, err := db.Query(`SELECT year, next_seq FROM project_code_sequences`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var year, seq int
		require.NoError(t, rows.Scan(&year, &seq))
		next[year] = seq
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, map[int]int{2024: 8, 2025: 3}, next)
}

func TestMigrate_BackfillNeverLowersSequence(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO project_code_sequences (year, next_seq) VALUES (2024, 20)`)
	require.NoError(t, err)
	_, err = db.Exec(insertProject, "p1", "PROJ-2024-003")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	var seq int
	require.NoError(t, db.QueryRow(`SELECT next_seq FROM project_code_sequences WHERE year = 2024`).Scan(&seq))
	assert.Equal(t, 20, seq)
}
