// Package refdata holds the immutable reference data the planner reads:
// assets, asset types, the cost catalog, teams and regions.
package refdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Dataset is built once at startup and only queried afterwards.
type Dataset struct {
	assets     []domain.Asset
	assetIndex map[string]int
	assetTypes map[string]domain.AssetType
	catalog    *Catalog
	teams      []string
	regions    []string

	// Diagnostics lists data problems found while indexing, such as assets
	// whose type code is unknown.
	Diagnostics []string
}

// NewDataset indexes the given tables. Assets that reference an unknown asset
// type are kept but recorded in Diagnostics. Of several rows sharing an asset
// ID only the first is kept.
func NewDataset(assetTypes []domain.AssetType, assets []domain.Asset, catalog *Catalog, teams, regions []string) *Dataset {
	d := &Dataset{
		assets:     make([]domain.Asset, 0, len(assets)),
		assetIndex: make(map[string]int, len(assets)),
		assetTypes: make(map[string]domain.AssetType, len(assetTypes)),
		catalog:    catalog,
		teams:      append([]string(nil), teams...),
		regions:    append([]string(nil), regions...),
	}
	if d.catalog == nil {
		d.catalog = NewCatalog(nil)
	}
	for _, t := range assetTypes {
		d.assetTypes[t.Code] = t
	}
	for _, a := range assets {
		if _, dup := d.assetIndex[a.ID]; dup {
			d.Diagnostics = append(d.Diagnostics, fmt.Sprintf("duplicate asset id %q; keeping the first row", a.ID))
			continue
		}
		d.assetIndex[a.ID] = len(d.assets)
		d.assets = append(d.assets, a)
		if _, ok := d.assetTypes[a.TypeCode]; !ok {
			d.Diagnostics = append(d.Diagnostics, fmt.Sprintf("asset type %q not found for asset %q", a.TypeCode, a.ID))
		}
	}
	return d
}

// Asset looks up an asset by ID.
func (d *Dataset) Asset(id string) (domain.Asset, bool) {
	i, ok := d.assetIndex[id]
	if !ok {
		return domain.Asset{}, false
	}
	return d.assets[i], true
}

// Assets returns every asset in source order.
func (d *Dataset) Assets() []domain.Asset {
	return d.assets
}

// AssetType looks up an asset type by code.
func (d *Dataset) AssetType(code string) (domain.AssetType, bool) {
	t, ok := d.assetTypes[code]
	return t, ok
}

// AssetTypes returns all asset types sorted by code.
func (d *Dataset) AssetTypes() []domain.AssetType {
	out := make([]domain.AssetType, 0, len(d.assetTypes))
	for _, t := range d.assetTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// AssetClassOf returns the asset class of the asset's type.
func (d *Dataset) AssetClassOf(a domain.Asset) (string, bool) {
	t, ok := d.assetTypes[a.TypeCode]
	if !ok {
		return "", false
	}
	return t.AssetClass, true
}

// AssetClassForTypeName resolves the asset class of the asset type with the
// given display name.
func (d *Dataset) AssetClassForTypeName(name string) (string, bool) {
	for _, t := range d.AssetTypes() {
		if t.Name == name {
			return t.AssetClass, true
		}
	}
	return "", false
}

// AssetsInRegionAndClass returns the assets of region whose type belongs to
// assetClass. Assets with an unknown type never match.
func (d *Dataset) AssetsInRegionAndClass(region, assetClass string) []domain.Asset {
	var out []domain.Asset
	for _, a := range d.assets {
		if a.Region != region {
			continue
		}
		if class, ok := d.AssetClassOf(a); ok && class == assetClass {
			out = append(out, a)
		}
	}
	return out
}

// AssetTypesInRegion returns the distinct asset-type names present in region,
// sorted.
func (d *Dataset) AssetTypesInRegion(region string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range d.assets {
		if a.Region != region {
			continue
		}
		t, ok := d.assetTypes[a.TypeCode]
		if !ok || seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t.Name)
	}
	sort.Strings(out)
	return out
}

// SearchAssets matches term case-insensitively against asset id, name, type
// name and region. An empty term returns every asset. Assets whose type is
// unknown are excluded from non-empty searches; the returned diagnostics name
// them.
func (d *Dataset) SearchAssets(term string) ([]domain.Asset, []string) {
	if term == "" {
		return d.assets, nil
	}
	needle := strings.ToLower(term)
	var out []domain.Asset
	var diags []string
	for _, a := range d.assets {
		t, ok := d.assetTypes[a.TypeCode]
		if !ok {
			diags = append(diags, fmt.Sprintf("asset type %q not found for asset %q", a.TypeCode, a.ID))
			continue
		}
		if strings.Contains(strings.ToLower(a.ID), needle) ||
			strings.Contains(strings.ToLower(a.Name), needle) ||
			strings.Contains(strings.ToLower(t.Name), needle) ||
			strings.Contains(strings.ToLower(a.Region), needle) {
			out = append(out, a)
		}
	}
	return out, diags
}

// Catalog returns the cost catalog.
func (d *Dataset) Catalog() *Catalog {
	return d.catalog
}

// Teams returns the team names.
func (d *Dataset) Teams() []string {
	return d.teams
}

// Regions returns the region names.
func (d *Dataset) Regions() []string {
	return d.regions
}
