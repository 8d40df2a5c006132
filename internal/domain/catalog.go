package domain

import (
	"fmt"
	"strings"
	"time"
)

// PathSeparator joins the segments of a rendered ActionPath.
const PathSeparator = " > "

// ActionPath addresses one entry of the cost catalog.
type ActionPath struct {
	Class string
	Type  string
	Name  string
}

func (p ActionPath) String() string {
	return p.Class + PathSeparator + p.Type + PathSeparator + p.Name
}

// IsZero reports whether no segment is set.
func (p ActionPath) IsZero() bool {
	return p.Class == "" && p.Type == "" && p.Name == ""
}

// ParseActionPath parses "Class > Type > Name". Surrounding whitespace on each
// segment is ignored.
func ParseActionPath(s string) (ActionPath, error) {
	parts := strings.Split(s, strings.TrimSpace(PathSeparator))
	if len(parts) != 3 {
		return ActionPath{}, fmt.Errorf("action path %q must have the form %q", s, "Class > Type > Action")
	}
	p := ActionPath{
		Class: strings.TrimSpace(parts[0]),
		Type:  strings.TrimSpace(parts[1]),
		Name:  strings.TrimSpace(parts[2]),
	}
	if p.Class == "" || p.Type == "" || p.Name == "" {
		return ActionPath{}, fmt.Errorf("action path %q has an empty segment", s)
	}
	return p, nil
}

// CatalogEntry is one priced action of the cost catalog.
type CatalogEntry struct {
	Path        ActionPath
	Cost        float64
	Unit        string
	Description string
	Lifecycle   int
}

// CustomAction is a user-defined catalog entry kept outside the standard
// catalog.
type CustomAction struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
	Unit        string    `json:"unit"`
	Lifecycle   int       `json:"lifecycle"`
	Category    string    `json:"category"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DefaultCustomCategory is the category assigned when none is given.
const DefaultCustomCategory = "Custom Actions"

// Validate checks the fields a custom action needs before it is stored.
func (c *CustomAction) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("custom action name is required")
	}
	if c.Cost < 0 {
		return fmt.Errorf("custom action cost must not be negative")
	}
	if c.Lifecycle < 0 {
		return fmt.Errorf("custom action lifecycle must not be negative")
	}
	return nil
}
