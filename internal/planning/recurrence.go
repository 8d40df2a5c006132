package planning

import (
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
)

// HorizonYear is the last calendar year covered by recurrence expansion.
func (p *Planner) HorizonYear() int {
	return p.now().Year() + p.horizonYears
}

// Expand turns a recurring action into its full series up to the horizon
// year. The base instance comes first, unchanged, followed by one instance
// per interval in ascending date order. Each synthesized instance gets a new
// ID, the base's series ID, status Open and no completion date. Other fields,
// the override date included, are copied from the base. The name is
// recomputed from the instance's own due date.
//
// Non-recurring actions, actions without a due date and intervals below 1
// yield only the base instance.
func (p *Planner) Expand(base domain.Action) []domain.Action {
	out := []domain.Action{base}
	if !base.Recurrence.Enabled || base.NextDue == nil || base.Recurrence.Value < 1 {
		return out
	}

	now := p.now()
	series := domain.CoalesceStr(base.SeriesID, base.ID)
	for _, due := range p.occurrences(*base.NextDue, base.Recurrence) {
		next := base.Clone()
		next.ID = p.newID()
		next.SeriesID = series
		next.NextDue = &due
		next.Status = domain.ActionOpen
		next.CompletedDate = nil
		next.CreatedAt = now
		next.LastModified = now
		// Instances keep the base override date but are named by their own due date.
		in := nameInputOf(&next)
		in.OverrideDate = nil
		next.Name = p.ActionName(in)
		out = append(out, next)
	}
	return out
}

// occurrences lists the due dates after start, up to and including the
// horizon year.
func (p *Planner) occurrences(start time.Time, r domain.Recurrence) []time.Time {
	horizon := p.HorizonYear()
	var dates []time.Time

	if r.Unit == domain.RecurMonths && !p.legacyYearStepping {
		for k := 1; ; k++ {
			d := addMonthsClamped(start, k*r.Value)
			if d.Year() > horizon {
				break
			}
			dates = append(dates, d)
		}
		return dates
	}

	for y := start.Year() + r.Value; y <= horizon; y += r.Value {
		dates = append(dates, time.Date(y, start.Month(), start.Day(), 0, 0, 0, 0, start.Location()))
	}
	return dates
}

// addMonthsClamped adds n months to t, keeping the day of month but clamping
// it to the last day of the target month (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}
