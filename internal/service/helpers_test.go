package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// serviceNow is the fixed clock of every service test: horizon year 2036.
var serviceNow = time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC)

func testPlanner() *planning.Planner {
	return planning.NewPlanner(testutil.NewTestDataset(), planning.WithClock(func() time.Time { return serviceNow }))
}

// newLoadedService builds a service over uow and loads it.
func newLoadedService(t *testing.T, uow db.UnitOfWork) *PlanService {
	t.Helper()
	svc := NewPlanService(testutil.NewTestDataset(), testPlanner(), uow, "planner")
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

// setupService returns a loaded service over a fresh in-memory store.
func setupService(t *testing.T) (*PlanService, *sql.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newLoadedService(t, testutil.NewTestUoW(database)), database
}

// reload reads the store back through a second service.
func reload(t *testing.T, database *sql.DB) *PlanService {
	t.Helper()
	return newLoadedService(t, testutil.NewTestUoW(database))
}

func createProject(t *testing.T, svc *PlanService, name string) *domain.Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), ProjectInput{Name: name, Team: "Parks", Region: "North"})
	require.NoError(t, err)
	return p
}

func date(y int, m time.Month, d int) *time.Time {
	return domain.DatePtr(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

var (
	prunePath = domain.ActionPath{Class: "Trees", Type: "Oak Tree", Name: "Prune"}
	weedPath  = domain.ActionPath{Class: "Wetlands", Type: "Marsh", Name: "Weed Control"}
)

func pruneInput(projectID string) ActionInput {
	return ActionInput{
		ProjectID:  projectID,
		AssetID:    "TREE-001",
		ActionPath: prunePath,
		NextDue:    date(2026, time.May, 1),
	}
}
