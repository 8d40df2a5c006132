package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/refdata"
	"github.com/google/uuid"
)

var testCodeCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithCode(code string) ProjectOption {
	return func(p *domain.Project) {
		p.Code = code
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithTeamAndRegion(team, region string) ProjectOption {
	return func(p *domain.Project) {
		p.Team = team
		p.Region = region
	}
}

func WithDates(start, end time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = domain.DatePtr(start)
		p.EndDate = domain.DatePtr(end)
	}
}

func WithActions(actions ...domain.Action) ProjectOption {
	return func(p *domain.Project) {
		for _, a := range actions {
			a.ProjectID = p.ID
			p.Actions = append(p.Actions, a)
		}
	}
}

// NewTestProject builds a valid project. Its code never matches the
// PROJ-<year>-<seq> pattern unless WithCode says otherwise, so it does not
// disturb code allocation.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:            uuid.New().String(),
		Code:          fmt.Sprintf("TEST-%03d", testCodeCounter.Add(1)),
		Name:          name,
		Status:        domain.ProjectPlanning,
		Team:          "Parks",
		Region:        "North",
		FundingStatus: domain.DefaultFundingStatus,
		ProjectType:   domain.DefaultProjectType,
		BudgetType:    domain.DefaultBudgetType,
		CreatedBy:     "tester",
		CreatedAt:     now,
		LastModified:  now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Action options
type ActionOption func(*domain.Action)

func WithStatus(s domain.ActionStatus) ActionOption {
	return func(a *domain.Action) {
		a.Status = s
	}
}

func WithCost(cost int) ActionOption {
	return func(a *domain.Action) {
		a.ModeledCost = cost
		a.Cost = cost
	}
}

func WithOverrideCost(cost int) ActionOption {
	return func(a *domain.Action) {
		a.OverrideCost = &cost
		a.Cost = cost
	}
}

func WithDue(d time.Time) ActionOption {
	return func(a *domain.Action) {
		a.NextDue = domain.DatePtr(d)
	}
}

func WithOverrideDate(d time.Time) ActionOption {
	return func(a *domain.Action) {
		a.OverrideDate = domain.DatePtr(d)
	}
}

func WithCompletedDate(d time.Time) ActionOption {
	return func(a *domain.Action) {
		a.CompletedDate = domain.DatePtr(d)
	}
}

func WithRecurrence(value int, unit domain.RecurrenceUnit) ActionOption {
	return func(a *domain.Action) {
		a.Recurrence = domain.Recurrence{Enabled: true, Value: value, Unit: unit}
	}
}

func WithPlannedAsset(name string) ActionOption {
	return func(a *domain.Action) {
		a.Target = domain.PlannedTarget{Name: name}
	}
}

func WithCustomAction(id, name string, cost float64) ActionOption {
	return func(a *domain.Action) {
		a.Descriptor = domain.CustomActionRef{ID: id, Name: name, Cost: cost}
	}
}

func WithSeries(id string) ActionOption {
	return func(a *domain.Action) {
		a.SeriesID = id
	}
}

// NewTestAction builds an open "Trees > Oak Tree > Prune" action on assetID,
// due on 1 May of next year.
func NewTestAction(projectID, assetID string, opts ...ActionOption) domain.Action {
	now := time.Now().UTC().Truncate(time.Second)
	id := uuid.New().String()
	size := 1.0
	a := domain.Action{
		ID:              id,
		ProjectID:       projectID,
		SeriesID:        id,
		Target:          domain.AssetTarget{AssetID: assetID},
		Descriptor:      domain.CatalogAction{Path: domain.ActionPath{Class: "Trees", Type: "Oak Tree", Name: "Prune"}},
		Status:          domain.ActionOpen,
		NextDue:         domain.DatePtr(time.Date(now.Year()+1, time.May, 1, 0, 0, 0, 0, time.UTC)),
		AssetPercentage: 100,
		AssetSize:       &size,
		UnitOfMeasure:   "Each",
		ModeledCost:     120,
		Cost:            120,
		CreatedBy:       "tester",
		CreatedAt:       now,
		LastModified:    now,
	}
	for _, opt := range opts {
		opt(&a)
	}
	a.Name = fmt.Sprintf("%s - %s", a.Label(), domain.CoalesceStr(a.AssetID(), a.PlannedAssetName()))
	return a
}

// NewTestDataset returns a small reference dataset:
//
//	types:   OAK "Oak Tree", ELM "Elm Tree" (class Trees), MARSH "Marsh" (class Wetlands)
//	assets:  TREE-001, TREE-002 (North), TREE-003 (South), WET-001 (North, 250 m2),
//	         GHOST-1 (unknown type)
//	catalog: Trees > Oak Tree > Prune 120, Trees > Oak Tree > Remove 900,
//	         Wetlands > Marsh > Weed Control 2.5
func NewTestDataset() *refdata.Dataset {
	types := []domain.AssetType{
		{Code: "OAK", Name: "Oak Tree", Unit: "Each", Prefix: "TREE", AssetClass: "Trees"},
		{Code: "ELM", Name: "Elm Tree", Unit: "Each", Prefix: "TREE", AssetClass: "Trees"},
		{Code: "MARSH", Name: "Marsh", Unit: "m2", Prefix: "WET", AssetClass: "Wetlands"},
	}
	assets := []domain.Asset{
		{ID: "TREE-001", Name: "Old Oak", TypeCode: "OAK", Region: "North", Size: 1,
			DirectReplacementCost: "$1,000", ServiceValue: "$400"},
		{ID: "TREE-002", Name: "Young Elm", TypeCode: "ELM", Region: "North", Size: 1,
			DirectReplacementCost: "$800", ServiceValue: "$300"},
		{ID: "TREE-003", Name: "South Oak", TypeCode: "OAK", Region: "South", Size: 1,
			DirectReplacementCost: "$1,200", ServiceValue: "$500"},
		{ID: "WET-001", Name: "Reed Marsh", TypeCode: "MARSH", Region: "North", Size: 250,
			DirectReplacementCost: "$50,000", ServiceValue: "$12,500"},
		{ID: "GHOST-1", Name: "Mystery", TypeCode: "???", Region: "North", Size: 3},
	}
	catalog := refdata.NewCatalog([]domain.CatalogEntry{
		{Path: domain.ActionPath{Class: "Trees", Type: "Oak Tree", Name: "Prune"}, Cost: 120, Unit: "Each", Lifecycle: 3},
		{Path: domain.ActionPath{Class: "Trees", Type: "Oak Tree", Name: "Remove"}, Cost: 900, Unit: "Each", Lifecycle: 80},
		{Path: domain.ActionPath{Class: "Wetlands", Type: "Marsh", Name: "Weed Control"}, Cost: 2.5, Unit: "m2", Lifecycle: 1},
	})
	return refdata.NewDataset(types, assets, catalog, []string{"Parks", "Forestry"}, []string{"North", "South"})
}
