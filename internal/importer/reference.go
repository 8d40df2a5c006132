package importer

import (
	"fmt"
	"log/slog"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/refdata"
)

// LoadReference reads the five reference tables of dir into a Dataset. Any
// missing or unreadable table is an error. Rows without their key column are
// skipped and reported; dataset diagnostics (unknown asset types, duplicate
// ids) are logged and copied into the report.
func LoadReference(dir string, logger *slog.Logger) (*refdata.Dataset, *LoadReport, error) {
	rep := newReporter(logger)

	types, err := loadAssetTypes(dir, rep)
	if err != nil {
		return nil, nil, err
	}
	entries, err := loadCostDatabase(dir, rep)
	if err != nil {
		return nil, nil, err
	}
	assets, err := loadAssets(dir, rep)
	if err != nil {
		return nil, nil, err
	}
	teams, err := loadNames(dir, TeamsFile, rep)
	if err != nil {
		return nil, nil, err
	}
	regions, err := loadNames(dir, RegionsFile, rep)
	if err != nil {
		return nil, nil, err
	}

	ds := refdata.NewDataset(types, assets, refdata.NewCatalog(entries), teams, regions)
	for _, d := range ds.Diagnostics {
		rep.diagnose("%s", d)
	}
	rep.logger.Info("reference data loaded",
		"dir", dir,
		"asset_types", len(types),
		"catalog_entries", ds.Catalog().Len(),
		"assets", len(ds.Assets()),
		"teams", len(teams),
		"regions", len(regions),
	)
	return ds, rep.report, nil
}

func loadAssetTypes(dir string, rep *reporter) ([]domain.AssetType, error) {
	rows, err := readTable(dir, AssetTypesFile)
	if err != nil {
		return nil, fmt.Errorf("loading asset types: %w", err)
	}
	var out []domain.AssetType
	for _, r := range rows {
		if r.Get("code") == "" {
			rep.skip(AssetTypesFile, r.Line, "missing code")
			continue
		}
		out = append(out, domain.AssetType{
			Code:       r.Get("code"),
			Name:       r.Get("name"),
			Unit:       r.Get("unit"),
			Prefix:     r.Get("prefix"),
			AssetClass: r.Get("assetClass"),
		})
	}
	return out, nil
}

func loadCostDatabase(dir string, rep *reporter) ([]domain.CatalogEntry, error) {
	rows, err := readTable(dir, CostDatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("loading cost database: %w", err)
	}
	var out []domain.CatalogEntry
	for _, r := range rows {
		path := domain.ActionPath{Class: r.Get("assetClass"), Type: r.Get("assetType"), Name: r.Get("actionName")}
		if path.Class == "" || path.Type == "" || path.Name == "" {
			rep.skip(CostDatabaseFile, r.Line, "incomplete action path %q", path.String())
			continue
		}
		out = append(out, domain.CatalogEntry{
			Path:        path,
			Cost:        parseFloat(r.Get("cost")),
			Unit:        r.Get("unit"),
			Description: r.Get("description"),
			Lifecycle:   parseInt(r.Get("lifecycle")),
		})
	}
	return out, nil
}

func loadAssets(dir string, rep *reporter) ([]domain.Asset, error) {
	rows, err := readTable(dir, AssetsFile)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	var out []domain.Asset
	for _, r := range rows {
		if r.Get("id") == "" {
			rep.skip(AssetsFile, r.Line, "missing id")
			continue
		}
		out = append(out, domain.Asset{
			ID:                    r.Get("id"),
			Name:                  r.Get("name"),
			TypeCode:              r.Get("type"),
			Region:                r.Get("region"),
			Size:                  parseFloat(r.Get("size")),
			DirectReplacementCost: r.First(ColDirectReplacementCost, "directReplacementCost"),
			ServiceValue:          r.First(ColServiceValue, "serviceValue"),
			ExpectedLifespan:      parseInt(r.Get("expectedLifespan")),
			ConditionScore:        parseInt(r.Get("conditionScore")),
		})
	}
	return out, nil
}

func loadNames(dir, table string, rep *reporter) ([]string, error) {
	rows, err := readTable(dir, table)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", table, err)
	}
	var out []string
	for _, r := range rows {
		name := r.Get("name")
		if name == "" {
			rep.skip(table, r.Line, "missing name")
			continue
		}
		out = append(out, name)
	}
	return out, nil
}
