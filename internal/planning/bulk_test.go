package planning

import (
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/refdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var prune = domain.CatalogAction{Path: domain.ActionPath{Class: "Trees", Type: "Oak Tree", Name: "Prune"}}

func bulkRequest() BulkRequest {
	return BulkRequest{
		ProjectID:       "p1",
		Region:          "North",
		AssetTypeName:   "Oak Tree",
		Descriptor:      prune,
		UnitCost:        f64(120),
		NextDue:         date(2027, 4, 1),
		AssetPercentage: 50,
		Actor:           "alice",
	}
}

func TestBulk_MatchesByRegionAndClass(t *testing.T) {
	p := newTestPlanner()

	res, err := p.Bulk(bulkRequest(), testDataset())
	require.NoError(t, err)

	// Oak and Elm share the Trees class; the marsh and the southern oak do not match.
	assert.Equal(t, 2, res.AssetCount)
	require.Len(t, res.Actions, 2)

	byAsset := make(map[string]domain.Action)
	for _, a := range res.Actions {
		byAsset[a.AssetID()] = a
	}
	require.Contains(t, byAsset, "TREE-042")
	require.Contains(t, byAsset, "TREE-043")

	oak := byAsset["TREE-042"]
	assert.Equal(t, "North - Prune - TREE-042", oak.Name)
	assert.Equal(t, 60, oak.ModeledCost) // 1 * 0.5 * 120
	assert.Equal(t, 60, oak.Cost)
	assert.Equal(t, "p1", oak.ProjectID)
	assert.Equal(t, domain.ActionOpen, oak.Status)
	assert.Equal(t, "Each", oak.UnitOfMeasure)
	assert.Equal(t, "alice", oak.CreatedBy)
	assert.Equal(t, oak.ID, oak.SeriesID)
	require.NotNil(t, oak.AssetSize)
	assert.Equal(t, 1.0, *oak.AssetSize)

	elm := byAsset["TREE-043"]
	assert.Equal(t, 120, elm.ModeledCost) // own size of 2
}

func TestBulk_OverrideAndCustomCost(t *testing.T) {
	p := newTestPlanner()

	req := bulkRequest()
	override := 999
	req.OverrideCost = &override
	res, err := p.Bulk(req, testDataset())
	require.NoError(t, err)
	for _, a := range res.Actions {
		assert.Equal(t, 999, a.Cost)
		assert.NotEqual(t, 999, a.ModeledCost)
	}

	req = bulkRequest()
	req.Descriptor = domain.CustomActionRef{ID: "c1", Name: "Mulch", Cost: 200}
	req.AdjustmentFactor = f64(1.1)
	res, err = p.Bulk(req, testDataset())
	require.NoError(t, err)
	for _, a := range res.Actions {
		assert.Equal(t, 220, a.Cost)
		assert.Equal(t, "Mulch", a.Name)
	}
}

func TestBulk_ExpandsRecurrencePerAsset(t *testing.T) {
	p := newTestPlanner()
	req := bulkRequest()
	req.Recurrence = domain.Recurrence{Enabled: true, Value: 3, Unit: domain.RecurYears}

	res, err := p.Bulk(req, testDataset())
	require.NoError(t, err)

	// 2027, 2030, 2033, 2036 for each of the two assets.
	assert.Len(t, res.Actions, 8)
	assert.Equal(t, 2, res.AssetCount)
	assert.Equal(t, "North - Prune - TREE-042 - Apr 2027", res.Actions[0].Name)
	assert.Equal(t, "North - Prune - TREE-042 - Apr 2030", res.Actions[1].Name)
	assert.Equal(t, res.Actions[0].ID, res.Actions[3].SeriesID)
}

func TestBulk_EmptyMatch(t *testing.T) {
	p := newTestPlanner()

	req := bulkRequest()
	req.Region = "South"
	req.AssetTypeName = "Marsh"
	res, err := p.Bulk(req, testDataset())
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "No assets found")
	assert.Empty(t, res.Actions)
	assert.Zero(t, res.AssetCount)

	req = bulkRequest()
	req.AssetTypeName = "Unknown Type"
	_, err = p.Bulk(req, testDataset())
	assert.True(t, IsValidation(err))
}

func TestBulk_RequiredFields(t *testing.T) {
	p := newTestPlanner()

	mutations := map[string]func(*BulkRequest){
		"region":      func(r *BulkRequest) { r.Region = "" },
		"asset type":  func(r *BulkRequest) { r.AssetTypeName = "" },
		"due date":    func(r *BulkRequest) { r.NextDue = nil },
		"descriptor":  func(r *BulkRequest) { r.Descriptor = nil },
		"empty label": func(r *BulkRequest) { r.Descriptor = domain.CatalogAction{} },
		"percentage":  func(r *BulkRequest) { r.AssetPercentage = 0 },
		"interval": func(r *BulkRequest) {
			r.Recurrence = domain.Recurrence{Enabled: true, Value: 0, Unit: domain.RecurYears}
		},
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			req := bulkRequest()
			mutate(&req)
			res, err := p.Bulk(req, testDataset())
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Empty(t, res.Actions)
		})
	}
}

func TestBulkPreviewName(t *testing.T) {
	p := newTestPlanner()
	req := bulkRequest()
	assert.Equal(t, "North - Prune - BULK", p.BulkPreviewName(req))

	req.Recurrence = domain.Recurrence{Enabled: true, Value: 1, Unit: domain.RecurYears}
	assert.Equal(t, "North - Prune - BULK - Apr 2027", p.BulkPreviewName(req))

	req.Descriptor = nil
	assert.Equal(t, "", p.BulkPreviewName(req))
}

func TestMatchBulkAssets(t *testing.T) {
	ds := testDataset()
	assert.Len(t, MatchBulkAssets(ds, "North", "Elm Tree"), 2)
	assert.Len(t, MatchBulkAssets(ds, "North", "Marsh"), 1)
	assert.Empty(t, MatchBulkAssets(ds, "East", "Marsh"))
}

func TestBulk_DuplicateAssetRowsPlanOnce(t *testing.T) {
	types := []domain.AssetType{{Code: "ELM", Name: "Elm Tree", Unit: "Each", AssetClass: "Trees"}}
	assets := []domain.Asset{
		{ID: "TREE-043", Name: "Park Elm", TypeCode: "ELM", Region: "North", Size: 2},
		{ID: "TREE-043", Name: "Park Elm", TypeCode: "ELM", Region: "North", Size: 2},
	}
	ds := refdata.NewDataset(types, assets, nil, nil, []string{"North"})

	matched := MatchBulkAssets(ds, "North", "Elm Tree")
	require.Len(t, matched, 1)
	assert.Equal(t, "TREE-043", matched[0].ID)

	req := bulkRequest()
	req.AssetTypeName = "Elm Tree"
	p := NewPlanner(ds, WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs()))
	res, err := p.Bulk(req, ds)
	require.NoError(t, err)
	assert.Equal(t, 1, res.AssetCount)
	assert.Len(t, res.Actions, 1)
}
