package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapitalPlan(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")

	pruned, err := svc.SaveAction(ctx, pruneInput(p.ID))
	require.NoError(t, err)
	_, err = svc.UpdateActionStatus(ctx, p.ID, pruned[0].ID, domain.ActionCompleted)
	require.NoError(t, err)

	_, err = svc.SaveAction(ctx, ActionInput{
		ProjectID:  p.ID,
		AssetID:    "WET-001",
		ActionPath: weedPath,
		NextDue:    date(2030, time.June, 1),
	})
	require.NoError(t, err)

	_, err = svc.SaveAction(ctx, ActionInput{
		ProjectID:  p.ID,
		AssetID:    "TREE-002",
		ActionPath: prunePath,
		NextDue:    date(2040, time.June, 1),
	})
	require.NoError(t, err)

	plan := svc.CapitalPlan()
	assert.Equal(t, 2026, plan.StartYear)
	assert.Equal(t, 10, plan.HorizonYears)
	require.Len(t, plan.Rows, 10)
	assert.Equal(t, 2035, plan.Rows[9].Year)

	assert.Equal(t, 120, plan.Rows[0].ActualSpend)
	assert.Equal(t, 0, plan.Rows[0].PlannedSpend)
	assert.Equal(t, 625, plan.Rows[4].PlannedSpend)
	assert.Equal(t, 745, plan.Totals.TotalSpend, "actions beyond the window are left out")
	assert.Equal(t, 625, plan.MaxSpend)
}

func TestExportActions(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")
	_, err := svc.SaveAction(ctx, pruneInput(p.ID))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := svc.ExportActions(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Project Name,Project ID,"))
	assert.True(t, strings.HasPrefix(lines[1], `"Street Trees","PROJ-2026-001","North","Trees","Old Oak"`), lines[1])
}
