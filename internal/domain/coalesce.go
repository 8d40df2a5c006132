package domain

import "time"

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// FirstDate returns the first non-nil, non-zero date from dates.
func FirstDate(dates ...*time.Time) *time.Time {
	for _, d := range dates {
		if d != nil && !d.IsZero() {
			return d
		}
	}
	return nil
}

// DatePtr truncates t to its calendar date in UTC and returns a pointer to it.
func DatePtr(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders a date pointer as YYYY-MM-DD, or "" when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
