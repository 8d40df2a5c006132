package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionRepo_ReplaceAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(database)
	repo := NewSQLiteActionRepo(database)

	proj := testutil.NewTestProject("Canopy")
	require.NoError(t, projects.Create(ctx, proj))

	factor := 1.15
	due := time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC)
	first := testutil.NewTestAction(proj.ID, "TREE-001",
		testutil.WithRecurrence(3, domain.RecurYears),
		testutil.WithOverrideCost(500),
		testutil.WithOverrideDate(due.AddDate(0, 2, 0)),
	)
	first.AdjustmentFactor = &factor
	second := testutil.NewTestAction(proj.ID, "",
		testutil.WithPlannedAsset("New Grove"),
		testutil.WithCustomAction("c-1", "Mulch", 40.5),
		testutil.WithStatus(domain.ActionCompleted),
		testutil.WithCompletedDate(due),
	)

	require.NoError(t, repo.ReplaceForProject(ctx, proj.ID, []domain.Action{first, second}))

	got, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, first, got[0])
	assert.Equal(t, second, got[1])

	assert.Equal(t, "TREE-001", got[0].AssetID())
	assert.Equal(t, "Trees > Oak Tree > Prune", got[0].PathString())
	assert.Equal(t, "New Grove", got[1].PlannedAssetName())
	assert.Equal(t, domain.CustomActionRef{ID: "c-1", Name: "Mulch", Cost: 40.5}, got[1].Descriptor)
}

func TestActionRepo_ReplaceDropsOldRows(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(database)
	repo := NewSQLiteActionRepo(database)

	proj := testutil.NewTestProject("Canopy")
	other := testutil.NewTestProject("Other")
	require.NoError(t, projects.Create(ctx, proj))
	require.NoError(t, projects.Create(ctx, other))

	a := testutil.NewTestAction(proj.ID, "TREE-001")
	b := testutil.NewTestAction(proj.ID, "TREE-002")
	c := testutil.NewTestAction(other.ID, "TREE-003")
	require.NoError(t, repo.ReplaceForProject(ctx, proj.ID, []domain.Action{a, b}))
	require.NoError(t, repo.ReplaceForProject(ctx, other.ID, []domain.Action{c}))

	require.NoError(t, repo.ReplaceForProject(ctx, proj.ID, []domain.Action{b}))

	got, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "other projects are untouched")
}

func TestActionRepo_KeepsOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(database)
	repo := NewSQLiteActionRepo(database)

	proj := testutil.NewTestProject("Ordered")
	require.NoError(t, projects.Create(ctx, proj))

	var actions []domain.Action
	for _, asset := range []string{"TREE-003", "TREE-001", "WET-001", "TREE-002"} {
		actions = append(actions, testutil.NewTestAction(proj.ID, asset))
	}
	require.NoError(t, repo.ReplaceForProject(ctx, proj.ID, actions))

	got, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i := range actions {
		assert.Equal(t, actions[i].ID, got[i].ID)
	}
}

func TestActionRepo_RejectsForeignProjectAction(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	projects := NewSQLiteProjectRepo(database)
	repo := NewSQLiteActionRepo(database)

	proj := testutil.NewTestProject("Mine")
	require.NoError(t, projects.Create(ctx, proj))

	stray := testutil.NewTestAction("someone-else", "TREE-001")
	err := repo.ReplaceForProject(ctx, proj.ID, []domain.Action{stray})
	assert.Error(t, err)
}

func TestActionRepo_UnknownProjectViolatesForeignKey(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteActionRepo(database)

	a := testutil.NewTestAction("missing", "TREE-001")
	err := repo.ReplaceForProject(context.Background(), "missing", []domain.Action{a})
	assert.Error(t, err)
}
