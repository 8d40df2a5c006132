// Package export renders the action list as a CSV download.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Header is the column order of the actions export.
var Header = []string{
	"Project Name", "Project ID", "Region Name", "Asset Class", "Asset Name", "Asset Size",
	"Action Name", "Action Cost", "Action Year", "Status", "Due Date", "Completed Date",
}

// AssetSource resolves the asset columns of a row.
type AssetSource interface {
	Asset(id string) (domain.Asset, bool)
	AssetType(code string) (domain.AssetType, bool)
}

// Row is one exported action.
type Row struct {
	ProjectName   string
	ProjectCode   string
	Region        string
	AssetClass    string
	AssetName     string
	AssetSize     string
	ActionName    string
	ActionCost    int
	ActionYear    string
	Status        string
	DueDate       string
	CompletedDate string
}

func (r Row) values() []string {
	return []string{
		r.ProjectName, r.ProjectCode, r.Region, r.AssetClass, r.AssetName, r.AssetSize,
		r.ActionName, strconv.Itoa(r.ActionCost), r.ActionYear, r.Status, r.DueDate, r.CompletedDate,
	}
}

// BuildRows flattens every action of every project, in project order. The
// region column is the project's region. Asset columns are blank for planned
// assets and unknown asset ids.
func BuildRows(projects []*domain.Project, assets AssetSource) []Row {
	var rows []Row
	for _, p := range projects {
		for i := range p.Actions {
			a := &p.Actions[i]
			row := Row{
				ProjectName:   p.Name,
				ProjectCode:   p.Code,
				Region:        p.Region,
				ActionName:    a.Name,
				ActionCost:    a.Cost,
				Status:        string(a.Status),
				DueDate:       domain.FormatDate(a.EffectiveDate()),
				CompletedDate: domain.FormatDate(a.CompletedDate),
			}
			if d := a.ReportDate(); d != nil {
				row.ActionYear = strconv.Itoa(d.Year())
			}
			if assets != nil {
				if asset, ok := assets.Asset(a.AssetID()); ok {
					row.AssetName = asset.Name
					if asset.Size != 0 {
						row.AssetSize = strconv.FormatFloat(asset.Size, 'f', -1, 64)
					}
					if t, ok := assets.AssetType(asset.TypeCode); ok {
						row.AssetClass = t.AssetClass
					}
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteActionsCSV writes the header line followed by one line per row. Every
// value is double-quoted with embedded quotes doubled; header names are
// written bare.
func WriteActionsCSV(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(Header, ",") + "\n"); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for _, r := range rows {
		vals := r.values()
		for i, v := range vals {
			vals[i] = quote(v)
		}
		if _, err := bw.WriteString(strings.Join(vals, ",") + "\n"); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
