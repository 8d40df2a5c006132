package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// CatalogSource is the read side of the cost catalog.
type CatalogSource interface {
	Classes() []string
	Types(class string) []string
	Actions(class, assetType string) []domain.CatalogEntry
}

// UnitCost renders a catalog cost per unit, e.g. "$2.50 / m2".
func UnitCost(cost float64, unit string) string {
	amount := "$" + strconv.FormatFloat(cost, 'f', 2, 64)
	if cost == float64(int(cost)) {
		amount = Money(int(cost))
	}
	if unit == "" {
		return amount
	}
	return amount + " / " + unit
}

// FormatCatalog renders the full class > type > action tree.
func FormatCatalog(c CatalogSource) string {
	var items []TreeItem
	classes := c.Classes()
	for ci, class := range classes {
		items = append(items, TreeItem{Title: class, Branch: true, Expanded: true, IsLast: ci == len(classes)-1})
		types := c.Types(class)
		for ti, t := range types {
			items = append(items, TreeItem{Title: t, Level: 1, Branch: true, Expanded: true, IsLast: ti == len(types)-1})
			actions := c.Actions(class, t)
			for ai, e := range actions {
				items = append(items, TreeItem{
					Title:  e.Path.Name,
					Level:  2,
					IsLast: ai == len(actions)-1,
					Detail: UnitCost(e.Cost, e.Unit),
				})
			}
		}
	}
	if len(items) == 0 {
		return Dim("The cost catalog is empty.")
	}
	return RenderBox("Cost catalog", RenderTree(items))
}

// FormatCatalogEntry renders the preview of one catalog action.
func FormatCatalogEntry(e domain.CatalogEntry) string {
	lines := []string{
		StyleBold.Render(e.Path.Name),
		Dim(e.Path.String()),
		"",
		Field("COST     ", UnitCost(e.Cost, e.Unit)),
	}
	if e.Lifecycle > 0 {
		lines = append(lines, Field("LIFECYCLE", fmt.Sprintf("%d years", e.Lifecycle)))
	}
	if e.Description != "" {
		lines = append(lines, "", StyleFg.Render(e.Description))
	}
	return strings.Join(lines, "\n")
}

// FormatCustomActions renders the user-defined actions.
func FormatCustomActions(actions []domain.CustomAction) string {
	if len(actions) == 0 {
		return Dim("No custom actions.")
	}
	headers := []string{"ID", "NAME", "CATEGORY", "COST", "LIFECYCLE"}
	rows := make([][]string, 0, len(actions))
	for _, c := range actions {
		lifecycle := Dim("--")
		if c.Lifecycle > 0 {
			lifecycle = fmt.Sprintf("%d yr", c.Lifecycle)
		}
		rows = append(rows, []string{TruncID(c.ID), Bold(c.Name), c.Category, UnitCost(c.Cost, c.Unit), lifecycle})
	}
	return RenderBox("Custom actions", RenderTable(headers, rows, 3))
}
