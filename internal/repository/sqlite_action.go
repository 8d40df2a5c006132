package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
)

// SQLiteActionRepo implements ActionRepo using a SQLite database.
type SQLiteActionRepo struct {
	db db.DBTX
}

func NewSQLiteActionRepo(conn db.DBTX) *SQLiteActionRepo {
	return &SQLiteActionRepo{db: conn}
}

const actionColumns = `id, project_id, series_id, name, asset_id, planned_asset_name, action_path,
	custom_action_id, custom_action_name, custom_action_cost, status, next_due, override_date,
	recurrence, recurrence_value, recurrence_unit, asset_percentage, asset_size, unit_of_measure,
	adjustment_factor, modeled_cost, override_cost, cost, created_by, created_at, updated_at,
	completed_date`

func (r *SQLiteActionRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE project_id = ? ORDER BY order_index, rowid`
	return r.query(ctx, query, projectID)
}

func (r *SQLiteActionRepo) ListAll(ctx context.Context) ([]domain.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions ORDER BY project_id, order_index, rowid`
	return r.query(ctx, query)
}

func (r *SQLiteActionRepo) ReplaceForProject(ctx context.Context, projectID string, actions []domain.Action) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM actions WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clearing actions of project %s: %w", projectID, err)
	}

	query := `INSERT INTO actions (` + actionColumns + `, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range actions {
		a := &actions[i]
		if a.ProjectID != projectID {
			return fmt.Errorf("action %s belongs to project %q, not %q", a.ID, a.ProjectID, projectID)
		}
		rec := toActionRecord(a)
		_, err := r.db.ExecContext(ctx, query,
			rec.ID,
			rec.ProjectID,
			rec.SeriesID,
			rec.Name,
			rec.AssetID,
			rec.PlannedAssetName,
			rec.ActionPath,
			rec.CustomActionID,
			rec.CustomActionName,
			nullableFloatToValue(rec.CustomActionCost),
			rec.Status,
			emptyToNull(rec.NextDue),
			emptyToNull(rec.OverrideDate),
			boolToInt(rec.Recurrence),
			rec.RecurrenceValue,
			rec.RecurrenceUnit,
			rec.AssetPercentage,
			nullableFloatToValue(rec.AssetSize),
			rec.UnitOfMeasure,
			nullableFloatToValue(rec.AdjustmentFactor),
			rec.ModeledCost,
			nullableIntToValue(rec.OverrideCost),
			rec.Cost,
			rec.CreatedBy,
			rec.CreatedAt,
			rec.LastModified,
			emptyToNull(rec.CompletedDate),
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting action %s: %w", a.ID, err)
		}
	}
	return nil
}

func (r *SQLiteActionRepo) query(ctx context.Context, query string, args ...any) ([]domain.Action, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing actions: %w", err)
	}
	defer rows.Close()

	var actions []domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actions: %w", err)
	}
	return actions, nil
}

func scanAction(row rowScanner) (domain.Action, error) {
	var rec actionRecord
	var customCost, assetSize, factor sql.NullFloat64
	var overrideCost sql.NullInt64
	var nextDue, overrideDate, completed sql.NullString
	var recurrence int

	err := row.Scan(
		&rec.ID, &rec.ProjectID, &rec.SeriesID, &rec.Name, &rec.AssetID, &rec.PlannedAssetName, &rec.ActionPath,
		&rec.CustomActionID, &rec.CustomActionName, &customCost, &rec.Status, &nextDue, &overrideDate,
		&recurrence, &rec.RecurrenceValue, &rec.RecurrenceUnit, &rec.AssetPercentage, &assetSize, &rec.UnitOfMeasure,
		&factor, &rec.ModeledCost, &overrideCost, &rec.Cost, &rec.CreatedBy, &rec.CreatedAt, &rec.LastModified,
		&completed,
	)
	if err != nil {
		return domain.Action{}, fmt.Errorf("scanning action: %w", err)
	}

	rec.CustomActionCost = nullFloatPtr(customCost)
	rec.AssetSize = nullFloatPtr(assetSize)
	rec.AdjustmentFactor = nullFloatPtr(factor)
	rec.OverrideCost = nullIntPtr(overrideCost)
	rec.NextDue = nextDue.String
	rec.OverrideDate = overrideDate.String
	rec.CompletedDate = completed.String
	rec.Recurrence = intToBool(recurrence)
	return rec.toAction()
}

func emptyToNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}
