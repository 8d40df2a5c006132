package refdata

import (
	"sort"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Catalog is the nested cost catalog: asset class -> asset type -> action name.
type Catalog struct {
	entries map[string]map[string]map[string]domain.CatalogEntry
	size    int
}

// NewCatalog builds a catalog from entries. A later entry with the same path
// replaces an earlier one.
func NewCatalog(entries []domain.CatalogEntry) *Catalog {
	c := &Catalog{entries: make(map[string]map[string]map[string]domain.CatalogEntry)}
	for _, e := range entries {
		c.add(e)
	}
	return c
}

func (c *Catalog) add(e domain.CatalogEntry) {
	types, ok := c.entries[e.Path.Class]
	if !ok {
		types = make(map[string]map[string]domain.CatalogEntry)
		c.entries[e.Path.Class] = types
	}
	actions, ok := types[e.Path.Type]
	if !ok {
		actions = make(map[string]domain.CatalogEntry)
		types[e.Path.Type] = actions
	}
	if _, exists := actions[e.Path.Name]; !exists {
		c.size++
	}
	actions[e.Path.Name] = e
}

// Lookup returns the entry at path.
func (c *Catalog) Lookup(path domain.ActionPath) (domain.CatalogEntry, bool) {
	e, ok := c.entries[path.Class][path.Type][path.Name]
	return e, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return c.size
}

// Classes returns the asset classes, sorted.
func (c *Catalog) Classes() []string {
	return sortedKeys(c.entries)
}

// Types returns the asset types of class, sorted.
func (c *Catalog) Types(class string) []string {
	return sortedKeys(c.entries[class])
}

// Actions returns the entries under class and type, sorted by action name.
func (c *Catalog) Actions(class, assetType string) []domain.CatalogEntry {
	actions := c.entries[class][assetType]
	out := make([]domain.CatalogEntry, 0, len(actions))
	for _, name := range sortedKeys(actions) {
		out = append(out, actions[name])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
