// Package planning holds the pure cost-modeling and scheduling rules of the
// capital plan: action naming, modeled cost, recurrence expansion, project
// rollups, bulk generation and the year-by-year spend report.
package planning

import (
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/google/uuid"
)

// DefaultHorizonYears is the length of the capital-plan window.
const DefaultHorizonYears = 10

// AssetResolver finds assets of the reference data by ID.
type AssetResolver interface {
	Asset(id string) (domain.Asset, bool)
}

// Planner applies the planning rules against a set of reference assets. The
// clock and ID generator are injectable so results are reproducible in tests.
type Planner struct {
	assets             AssetResolver
	now                func() time.Time
	newID              func() string
	horizonYears       int
	legacyYearStepping bool
}

type Option func(*Planner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithIDGenerator replaces the uuid generator for new action instances.
func WithIDGenerator(newID func() string) Option {
	return func(p *Planner) { p.newID = newID }
}

// WithHorizonYears sets the planning horizon. Non-positive values keep the default.
func WithHorizonYears(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.horizonYears = n
		}
	}
}

// WithLegacyYearStepping makes recurrence advance by whole years even when the
// interval unit is months.
func WithLegacyYearStepping(on bool) Option {
	return func(p *Planner) { p.legacyYearStepping = on }
}

func NewPlanner(assets AssetResolver, opts ...Option) *Planner {
	p := &Planner{
		assets:       assets,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
		horizonYears: DefaultHorizonYears,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HorizonYears returns the configured planning horizon.
func (p *Planner) HorizonYears() int {
	return p.horizonYears
}

// Now returns the planner's current time.
func (p *Planner) Now() time.Time {
	return p.now()
}

// NewID returns a fresh action identifier.
func (p *Planner) NewID() string {
	return p.newID()
}

func (p *Planner) lookupAsset(id string) (domain.Asset, bool) {
	if p.assets == nil || id == "" {
		return domain.Asset{}, false
	}
	return p.assets.Asset(id)
}
