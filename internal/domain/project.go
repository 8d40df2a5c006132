package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var projectCodePattern = regexp.MustCompile(`^PROJ-([0-9]{4})-([0-9]{3,})$`)

// RenewalsProjectID identifies the system-generated "Asset Renewals" project.
const RenewalsProjectID = "RENEWALS-PROJECT"

type Project struct {
	ID            string
	Code          string
	Name          string
	Description   string
	Status        ProjectStatus
	StartDate     *time.Time
	EndDate       *time.Time
	Team          string
	Region        string
	FundingStatus string
	ProjectType   string
	BudgetType    string
	Justification string

	Actions []Action

	// Derived from Actions and the asset reference data.
	Completion                 int
	TotalDirectReplacementCost decimal.Decimal
	TotalServiceValue          decimal.Decimal

	CreatedBy    string
	CreatedAt    time.Time
	LastModified time.Time
}

// IsSystem reports whether the project is system generated and therefore
// excluded from project edits.
func (p *Project) IsSystem() bool {
	return p.ID == RenewalsProjectID
}

// ProjectCode formats the human project code for the nth project of year.
func ProjectCode(year, seq int) string {
	return fmt.Sprintf("PROJ-%d-%03d", year, seq)
}

// ParseProjectCode extracts year and sequence from a PROJ-<year>-<seq> code.
func ParseProjectCode(code string) (year, seq int, err error) {
	m := projectCodePattern.FindStringSubmatch(code)
	if m == nil {
		return 0, 0, fmt.Errorf("project code %q must look like PROJ-2025-001", code)
	}
	year, _ = strconv.Atoi(m[1])
	seq, _ = strconv.Atoi(m[2])
	return year, seq, nil
}

// Validate checks the user-editable project fields.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if !ValidProjectStatuses[p.Status] {
		return fmt.Errorf("invalid project status %q", p.Status)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			p.EndDate.Format(DateLayout), p.StartDate.Format(DateLayout))
	}
	return nil
}

// FindAction returns the index of the action with the given ID, or -1.
func (p *Project) FindAction(id string) int {
	for i := range p.Actions {
		if p.Actions[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveActions returns the actions that are neither completed nor archived.
func (p *Project) ActiveActions() []Action {
	var out []Action
	for _, a := range p.Actions {
		if !a.Status.IsClosed() {
			out = append(out, a)
		}
	}
	return out
}

// ClosedActions returns the completed and archived actions.
func (p *Project) ClosedActions() []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Status.IsClosed() {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a copy whose action slice can be changed without affecting p.
func (p *Project) Clone() *Project {
	c := *p
	c.Actions = append([]Action(nil), p.Actions...)
	return &c
}
