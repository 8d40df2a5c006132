package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/spf13/pflag"
)

// dateFlag is an optional YYYY-MM-DD flag value.
type dateFlag struct {
	t *time.Time
}

var _ pflag.Value = (*dateFlag)(nil)

func (f *dateFlag) String() string {
	if f.t == nil {
		return ""
	}
	return f.t.Format(domain.DateLayout)
}

func (f *dateFlag) Set(s string) error {
	t, err := domain.ParseDate(s)
	if err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	f.t = t
	return nil
}

func (f *dateFlag) Type() string { return "date" }

// Value returns the parsed date, nil when unset or blank.
func (f *dateFlag) Value() *time.Time { return f.t }

// projectStatusFlag accepts a project status, case-insensitively.
type projectStatusFlag struct {
	status domain.ProjectStatus
}

var _ pflag.Value = (*projectStatusFlag)(nil)

func (f *projectStatusFlag) String() string { return string(f.status) }
func (f *projectStatusFlag) Type() string   { return "status" }

func (f *projectStatusFlag) Set(s string) error {
	for st := range domain.ValidProjectStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			f.status = st
			return nil
		}
	}
	return fmt.Errorf("unknown project status %q", s)
}

// actionStatusFlag accepts an action status, case-insensitively.
type actionStatusFlag struct {
	status domain.ActionStatus
}

var _ pflag.Value = (*actionStatusFlag)(nil)

func (f *actionStatusFlag) String() string { return string(f.status) }
func (f *actionStatusFlag) Type() string   { return "status" }

func (f *actionStatusFlag) Set(s string) error {
	for st := range domain.ValidActionStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			f.status = st
			return nil
		}
	}
	return fmt.Errorf("unknown action status %q", s)
}

// floatFlag is an optional number; unset stays nil.
type floatFlag struct {
	v *float64
}

var _ pflag.Value = (*floatFlag)(nil)

func (f *floatFlag) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.FormatFloat(*f.v, 'f', -1, 64)
}

func (f *floatFlag) Set(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	f.v = &v
	return nil
}

func (f *floatFlag) Type() string { return "number" }

// intFlag is an optional whole number; unset stays nil.
type intFlag struct {
	v *int
}

var _ pflag.Value = (*intFlag)(nil)

func (f *intFlag) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.Itoa(*f.v)
}

func (f *intFlag) Set(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a whole number: %q", s)
	}
	f.v = &v
	return nil
}

func (f *intFlag) Type() string { return "int" }

// recurrenceFlags registers --every and --unit on a flag set.
type recurrenceFlags struct {
	every int
	unit  string
}

func (r *recurrenceFlags) register(fs *pflag.FlagSet) {
	fs.IntVar(&r.every, "every", 0, "Repeat every N units up to the planning horizon")
	fs.StringVar(&r.unit, "unit", string(domain.RecurYears), "Recurrence unit: years or months")
}

func (r *recurrenceFlags) recurrence() (domain.Recurrence, error) {
	if r.every == 0 {
		return domain.Recurrence{}, nil
	}
	unit := domain.RecurrenceUnit(strings.ToLower(strings.TrimSpace(r.unit)))
	if unit != domain.RecurYears && unit != domain.RecurMonths {
		return domain.Recurrence{}, fmt.Errorf("unit must be %q or %q", domain.RecurYears, domain.RecurMonths)
	}
	return domain.Recurrence{Enabled: true, Value: r.every, Unit: unit}, nil
}

// parseActionRef parses the --action flag: "Class > Type > Action".
func parseActionRef(s string) (domain.ActionPath, error) {
	if strings.TrimSpace(s) == "" {
		return domain.ActionPath{}, nil
	}
	return domain.ParseActionPath(s)
}
