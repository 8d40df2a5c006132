package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAction_CreateAutoFillsAndCosts(t *testing.T) {
	svc, database := setupService(t)
	p := createProject(t, svc, "Street Trees")

	saved, err := svc.SaveAction(context.Background(), pruneInput(p.ID))
	require.NoError(t, err)
	require.Len(t, saved, 1)

	a := saved[0]
	assert.Equal(t, "North - Prune - TREE-001", a.Name)
	assert.Equal(t, domain.AssetTarget{AssetID: "TREE-001"}, a.Target)
	assert.Equal(t, domain.ActionOpen, a.Status)
	assert.Equal(t, 100, a.AssetPercentage)
	require.NotNil(t, a.AssetSize)
	assert.InDelta(t, 1.0, *a.AssetSize, 1e-9)
	assert.Equal(t, "Each", a.UnitOfMeasure)
	assert.Equal(t, 120, a.ModeledCost)
	assert.Equal(t, 120, a.Cost)
	assert.Equal(t, a.ID, a.SeriesID)
	assert.Equal(t, "planner", a.CreatedBy)

	stored, err := reload(t, database).Project(p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Actions, 1)
	assert.Equal(t, a.Name, stored.Actions[0].Name)
	assert.Equal(t, 120, stored.Actions[0].Cost)
}

func TestSaveAction_CostModel(t *testing.T) {
	svc, _ := setupService(t)
	p := createProject(t, svc, "Costing")
	factor := 1.1
	override := 80

	tests := []struct {
		name        string
		mutate      func(in *ActionInput)
		wantModeled int
		wantCost    int
		wantUnit    string
	}{
		{
			name: "area asset at half coverage",
			mutate: func(in *ActionInput) {
				in.AssetID = "WET-001"
				in.ActionPath = weedPath
				in.AssetPercentage = 50
			},
			wantModeled: 313, wantCost: 313, wantUnit: "m2",
		},
		{
			name:        "adjustment factor",
			mutate:      func(in *ActionInput) { in.AdjustmentFactor = &factor },
			wantModeled: 132, wantCost: 132, wantUnit: "Each",
		},
		{
			name:        "override cost wins",
			mutate:      func(in *ActionInput) { in.OverrideCost = &override },
			wantModeled: 120, wantCost: 80, wantUnit: "Each",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := pruneInput(p.ID)
			tc.mutate(&in)
			saved, err := svc.SaveAction(context.Background(), in)
			require.NoError(t, err)
			require.Len(t, saved, 1)
			assert.Equal(t, tc.wantModeled, saved[0].ModeledCost)
			assert.Equal(t, tc.wantCost, saved[0].Cost)
			assert.Equal(t, tc.wantUnit, saved[0].UnitOfMeasure)
		})
	}
}

func TestSaveAction_PlannedAssetWithCustomAction(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "New Ponds")

	survey, err := svc.CreateCustomAction(ctx, CustomActionInput{Name: "Survey", Cost: 500})
	require.NoError(t, err)

	saved, err := svc.SaveAction(ctx, ActionInput{
		ProjectID:        p.ID,
		PlannedAssetName: "New Pond",
		CustomActionID:   survey.ID,
		NextDue:          date(2026, time.September, 1),
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	a := saved[0]
	assert.Equal(t, "Survey - New Pond", a.Name)
	assert.Equal(t, domain.PlannedTarget{Name: "New Pond"}, a.Target)
	assert.Equal(t, domain.CustomActionRef{ID: survey.ID, Name: "Survey", Cost: 500}, a.Descriptor)
	assert.Nil(t, a.AssetSize)
	assert.Equal(t, 500, a.Cost)
}

func TestSaveAction_Validation(t *testing.T) {
	svc, _ := setupService(t)
	p := createProject(t, svc, "Street Trees")

	tests := []struct {
		name   string
		mutate func(in *ActionInput)
	}{
		{"no target", func(in *ActionInput) { in.AssetID = "" }},
		{"both targets", func(in *ActionInput) { in.PlannedAssetName = "New Oak" }},
		{"unknown asset", func(in *ActionInput) { in.AssetID = "TREE-999" }},
		{"no action", func(in *ActionInput) { in.ActionPath = domain.ActionPath{} }},
		{"action outside catalog", func(in *ActionInput) { in.ActionPath.Name = "Paint" }},
		{"no due date", func(in *ActionInput) { in.NextDue = nil }},
		{"percentage above 100", func(in *ActionInput) { in.AssetPercentage = 150 }},
		{"zero interval", func(in *ActionInput) {
			in.Recurrence = domain.Recurrence{Enabled: true, Value: 0, Unit: domain.RecurYears}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := pruneInput(p.ID)
			tc.mutate(&in)
			_, err := svc.SaveAction(context.Background(), in)
			require.Error(t, err)
			assert.True(t, planning.IsValidation(err), "got %v", err)
		})
	}

	stored, err := svc.Project(p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Actions)
	assert.Empty(t, svc.AuditTrail(AuditFilter{}))
}

func TestSaveAction_UnknownReferences(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")

	in := pruneInput(p.ID)
	in.CustomActionID = "missing"
	_, err := svc.SaveAction(ctx, in)
	assert.ErrorIs(t, err, ErrCustomActionNotFound)

	in = pruneInput("missing")
	_, err = svc.SaveAction(ctx, in)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	in = pruneInput(p.ID)
	in.ActionID = "missing"
	_, err = svc.SaveAction(ctx, in)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestSaveAction_ExpandsRecurrence(t *testing.T) {
	svc, _ := setupService(t)
	p := createProject(t, svc, "Street Trees")

	in := pruneInput(p.ID)
	in.Recurrence = domain.Recurrence{Enabled: true, Value: 2}
	saved, err := svc.SaveAction(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, saved, 6, "2026 through the 2036 horizon every two years")

	for i, a := range saved {
		assert.Equal(t, 2026+2*i, a.NextDue.Year())
		assert.Equal(t, saved[0].ID, a.SeriesID)
		assert.Equal(t, domain.RecurYears, a.Recurrence.Unit, "unit defaults to years")
	}
	assert.Equal(t, "North - Prune - TREE-001 - May 2026", saved[0].Name)
	assert.Equal(t, "North - Prune - TREE-001 - May 2036", saved[5].Name)

	stored, err := svc.Project(p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Actions, 6)
}

func TestSaveAction_EditReplacesOpenSeriesTail(t *testing.T) {
	svc, database := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")
	other, err := svc.SaveAction(ctx, ActionInput{
		ProjectID: p.ID, AssetID: "TREE-002", ActionPath: prunePath, NextDue: date(2027, time.January, 1),
	})
	require.NoError(t, err)

	in := pruneInput(p.ID)
	in.Recurrence = domain.Recurrence{Enabled: true, Value: 2, Unit: domain.RecurYears}
	series, err := svc.SaveAction(ctx, in)
	require.NoError(t, err)
	require.Len(t, series, 6)

	done2028 := series[1]
	_, err = svc.UpdateActionStatus(ctx, p.ID, done2028.ID, domain.ActionCompleted)
	require.NoError(t, err)

	edit := in
	edit.ActionID = series[0].ID
	edit.Recurrence.Value = 5
	edited, err := svc.SaveAction(ctx, edit)
	require.NoError(t, err)
	require.Len(t, edited, 3, "2026, 2031, 2036")
	assert.Equal(t, series[0].ID, edited[0].ID, "the edited action keeps its identity")
	assert.Equal(t, series[0].CreatedAt, edited[0].CreatedAt)

	stored, err := svc.Project(p.ID)
	require.NoError(t, err)
	var ids []string
	for _, a := range stored.Actions {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{other[0].ID, edited[0].ID, edited[1].ID, edited[2].ID, done2028.ID}, ids)

	trail := svc.AuditTrail(AuditFilter{EntityType: domain.EntityAction, EntityID: series[0].ID})
	require.Len(t, trail, 1)
	assert.Equal(t, "recurrenceValue", trail[0].Field)
	assert.Equal(t, "2", trail[0].OldValue)
	assert.Equal(t, "5", trail[0].NewValue)

	again, err := reload(t, database).Project(p.ID)
	require.NoError(t, err)
	assert.Len(t, again.Actions, 5)
}

func TestUpdateActionStatus_CompleteArchivesAndStampsDate(t *testing.T) {
	svc, database := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")
	saved, err := svc.SaveAction(ctx, pruneInput(p.ID))
	require.NoError(t, err)

	updated, err := svc.UpdateActionStatus(ctx, p.ID, saved[0].ID, domain.ActionCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCompleted, updated.Status)
	assert.Equal(t, "2026-03-01", domain.FormatDate(updated.CompletedDate))

	stored, err := svc.Project(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Completion)

	archives := svc.Archives()
	require.Len(t, archives, 1)
	assert.Equal(t, domain.ArchiveCompleted, archives[0].Reason)
	assert.Equal(t, saved[0].ID, archives[0].Action.ID)

	trail := svc.AuditTrail(AuditFilter{EntityID: saved[0].ID})
	require.Len(t, trail, 1)
	assert.Equal(t, "Open", trail[0].OldValue)
	assert.Equal(t, "Completed", trail[0].NewValue)

	again := reload(t, database)
	assert.Len(t, again.Archives(), 1)
	reloaded, err := again.Project(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCompleted, reloaded.Actions[0].Status)
}

func TestUpdateActionStatus_OnlyClosingStatusesArchive(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")
	saved, err := svc.SaveAction(ctx, pruneInput(p.ID))
	require.NoError(t, err)
	id := saved[0].ID

	_, err = svc.UpdateActionStatus(ctx, p.ID, id, domain.ActionInProgress)
	require.NoError(t, err)
	assert.Empty(t, svc.Archives())

	_, err = svc.UpdateActionStatus(ctx, p.ID, id, domain.ActionArchived)
	require.NoError(t, err)
	require.Len(t, svc.Archives(), 1)
	assert.Equal(t, domain.ArchiveArchived, svc.Archives()[0].Reason)

	_, err = svc.UpdateActionStatus(ctx, p.ID, id, "Someday")
	assert.True(t, planning.IsValidation(err))
}

func TestDeleteAction(t *testing.T) {
	svc, database := setupService(t)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")
	saved, err := svc.SaveAction(ctx, pruneInput(p.ID))
	require.NoError(t, err)
	id := saved[0].ID

	err = svc.DeleteAction(ctx, p.ID, id, false)
	require.ErrorIs(t, err, ErrConfirmationRequired)
	stored, err := svc.Project(p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Actions, 1, "unconfirmed delete changes nothing")

	require.NoError(t, svc.DeleteAction(ctx, p.ID, id, true))
	stored, err = svc.Project(p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Actions)

	archives := svc.Archives()
	require.Len(t, archives, 1)
	assert.Equal(t, domain.ArchiveDeleted, archives[0].Reason)
	trail := svc.AuditTrail(AuditFilter{EntityID: id})
	require.Len(t, trail, 1)
	assert.Equal(t, DeletedStatus, trail[0].NewValue)

	again, err := reload(t, database).Project(p.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Actions)

	assert.ErrorIs(t, svc.DeleteAction(ctx, p.ID, id, true), ErrActionNotFound)
}

func TestSaveAction_RollbackLeavesStateAndStoreUnchanged(t *testing.T) {
	database := testutil.NewTestDB(t)
	failUoW := &testutil.FailOnNthExecUoW{DB: database, Err: fmt.Errorf("injected write failure")}
	svc := newLoadedService(t, failUoW)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")
	first, err := svc.SaveAction(ctx, pruneInput(p.ID))
	require.NoError(t, err)

	// #1 updates the project header, #2 clears its actions, #3 re-inserts the first.
	failUoW.FailOn = int32(failUoW.Execs() + 3)
	in := pruneInput(p.ID)
	in.Recurrence = domain.Recurrence{Enabled: true, Value: 1, Unit: domain.RecurYears}
	_, err = svc.SaveAction(ctx, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected write failure")

	stored, err := svc.Project(p.ID)
	require.NoError(t, err)
	require.Len(t, stored.Actions, 1, "in-memory state is unchanged")
	assert.Equal(t, first[0].ID, stored.Actions[0].ID)

	again, err := reload(t, database).Project(p.ID)
	require.NoError(t, err)
	require.Len(t, again.Actions, 1, "store is unchanged")
	assert.Equal(t, first[0].ID, again.Actions[0].ID)
}

func TestUpdateActionStatus_RollbackKeepsArchiveEmpty(t *testing.T) {
	database := testutil.NewTestDB(t)
	failUoW := &testutil.FailOnNthExecUoW{DB: database, Err: fmt.Errorf("injected archive failure")}
	svc := newLoadedService(t, failUoW)
	ctx := context.Background()
	p := createProject(t, svc, "Street Trees")
	saved, err := svc.SaveAction(ctx, pruneInput(p.ID))
	require.NoError(t, err)

	// #1 project header, #2 clear actions, #3 insert action, #4 archive snapshot.
	failUoW.FailOn = int32(failUoW.Execs() + 4)
	_, err = svc.UpdateActionStatus(ctx, p.ID, saved[0].ID, domain.ActionCompleted)
	require.Error(t, err)

	assert.Empty(t, svc.Archives())
	stored, err := svc.Project(p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionOpen, stored.Actions[0].Status)

	again := reload(t, database)
	assert.Empty(t, again.Archives())
	assert.Empty(t, again.AuditTrail(AuditFilter{EntityID: saved[0].ID}))
}
