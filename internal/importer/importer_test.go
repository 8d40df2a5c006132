package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var importNow = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

func writeTables(t *testing.T, tables map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range tables {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(strings.TrimLeft(content, "\n")), 0o644))
	}
	return dir
}

func referenceTables() map[string]string {
	return map[string]string{
		AssetTypesFile: `
code,name,unit,prefix,assetClass
OAK,Oak Tree,Each,TREE,Trees
MARSH,Marsh,m2,WET,Wetlands
,Nameless,Each,X,Trees
`,
		CostDatabaseFile: `
assetClass,assetType,actionName,cost,unit,description,lifecycle
Trees,Oak Tree,Prune,120,Each,Crown pruning,3
Wetlands,Marsh,Weed Control,2.5,m2,Invasive removal,1
Trees,,Broken,1,Each,,
`,
		AssetsFile: `
id,name,type,region,size,Direct Replacement Cost,Service Value,expectedLifespan,conditionScore
TREE-001,Old Oak,OAK,North,1,"$1,000",$400,80,4
WET-001,Reed Marsh,MARSH,North,250,"$50,000","$12,500",50,3
GHOST-1,Mystery,???,North,abc,n/a,,,
`,
		TeamsFile:   "name\nParks\nForestry\n",
		RegionsFile: "name\nNorth\nSouth\n",
	}
}

func TestLoadReference(t *testing.T) {
	dir := writeTables(t, referenceTables())

	ds, report, err := LoadReference(dir, nil)
	require.NoError(t, err)

	assert.Len(t, ds.AssetTypes(), 2)
	assert.Equal(t, 2, ds.Catalog().Len())
	assert.Len(t, ds.Assets(), 3)
	assert.Equal(t, []string{"Parks", "Forestry"}, ds.Teams())
	assert.Equal(t, []string{"North", "South"}, ds.Regions())

	entry, ok := ds.Catalog().Lookup(domain.ActionPath{Class: "Wetlands", Type: "Marsh", Name: "Weed Control"})
	require.True(t, ok)
	assert.InDelta(t, 2.5, entry.Cost, 1e-9)
	assert.Equal(t, 1, entry.Lifecycle)

	oak, ok := ds.Asset("TREE-001")
	require.True(t, ok)
	assert.Equal(t, "$1,000", oak.DirectReplacementCost)
	assert.Equal(t, 80, oak.ExpectedLifespan)
	assert.Equal(t, 4, oak.ConditionScore)

	ghost, ok := ds.Asset("GHOST-1")
	require.True(t, ok)
	assert.Zero(t, ghost.Size, "unparsable size loads as zero")

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, AssetTypesFile, report.Skipped[0].Table)
	assert.Equal(t, 4, report.Skipped[0].Line)
	assert.Equal(t, CostDatabaseFile, report.Skipped[1].Table)
	require.Len(t, report.Diagnostics, 1)
	assert.Contains(t, report.Diagnostics[0], `asset type "???" not found for asset "GHOST-1"`)
}

func TestLoadReference_AssetValuesFeedRollup(t *testing.T) {
	dir := writeTables(t, referenceTables())
	ds, _, err := LoadReference(dir, nil)
	require.NoError(t, err)

	actions := []domain.Action{
		{Cost: 120, Status: domain.ActionOpen, Target: domain.AssetTarget{AssetID: "TREE-001"}},
		{Cost: 80, Status: domain.ActionOpen, Target: domain.AssetTarget{AssetID: "TREE-001"}},
		{Cost: 500, Status: domain.ActionOpen, Target: domain.AssetTarget{AssetID: "WET-001"}},
	}
	r := planning.Aggregate(actions, ds)
	assert.True(t, decimal.NewFromInt(51000).Equal(r.TotalDirectReplacementCost), r.TotalDirectReplacementCost.String())
	assert.True(t, decimal.NewFromInt(12900).Equal(r.TotalServiceValue), r.TotalServiceValue.String())
}

func TestLoadReference_CamelCaseAssetValueColumns(t *testing.T) {
	tables := referenceTables()
	tables[AssetsFile] = `
id,name,type,region,size,directReplacementCost,serviceValue
TREE-001,Old Oak,OAK,North,1,"$1,000",$400
`
	dir := writeTables(t, tables)
	ds, _, err := LoadReference(dir, nil)
	require.NoError(t, err)

	oak, ok := ds.Asset("TREE-001")
	require.True(t, ok)
	assert.Equal(t, "$1,000", oak.DirectReplacementCost)
	assert.Equal(t, "$400", oak.ServiceValue)
}

func TestLoadReference_MissingTableIsFatal(t *testing.T) {
	tables := referenceTables()
	delete(tables, CostDatabaseFile)
	dir := writeTables(t, tables)

	_, _, err := LoadReference(dir, nil)
	require.ErrorIs(t, err, ErrMissingTable)
	assert.Contains(t, err.Error(), CostDatabaseFile)
}

func TestParseTable_PadsShortRowsAndStripsBOM(t *testing.T) {
	rows, err := parseTable(strings.NewReader("\ufeffid,name,region\nA-1,First\nA-2,\"Second, quoted\",South\n"), "t.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "A-1", rows[0].Get("id"))
	assert.Equal(t, "", rows[0].Get("region"))
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Second, quoted", rows[1].Get("name"))
	assert.Equal(t, "", rows[1].Get("missing"))
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, 12, parseInt("12.7"))
	assert.Equal(t, 0, parseInt("twelve"))
	assert.Nil(t, parseOptionalInt(""))
	assert.Nil(t, parseOptionalFloat("n/a"))
	assert.True(t, parseBool("TRUE"))
	assert.False(t, parseBool("yes"))

	ts, err := parseTimestamp("2024-01-15T10:30:00.000Z", importNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 15, 10, 30, 0, 0, time.UTC), ts)

	ts, err = parseTimestamp("", importNow)
	require.NoError(t, err)
	assert.Equal(t, importNow, ts)

	_, err = parseTimestamp("last tuesday", importNow)
	assert.Error(t, err)
}

func seedTables() map[string]string {
	return map[string]string{
		ProjectsFile: `
id,projectId,name,description,status,startDate,endDate,team,region,completion,fundingStatus,projectType,budgetType,justification,createdBy,createdDate,lastModified
1,PROJ-2025-001,Tree Program,Street trees,In Progress,2025-01-01,2026-12-31,Parks,North,40,Funded,Renewal,Multi Year,Aging canopy,jdoe,2025-01-02T08:00:00.000Z,2025-02-01T08:00:00.000Z
2,PROJ-2025-002,Wetland Care,,Planning,,,Parks,North,0,,,,,,,
3,,No Code,,Planning,,,,,0,,,,,,,
4,PROJ-2025-004,Bad Status,,Someday,,,,,0,,,,,,,
`,
		ActionsFile: `
id,projectId,name,assetId,plannedAssetName,actionPath,status,nextDue,overrideDate,completedDate,recurrence,recurrenceValue,recurrenceUnit,assetPercentage,assetSize,unitOfMeasure,adjustmentFactor,isCustomAction,customActionName,customActionCost,modeledCost,overrideCost,cost,createdBy,createdDate,lastModified
10,1,North - Prune - TREE-001,TREE-001,,Trees > Oak Tree > Prune,Completed,2025-05-01,,2025-05-03,false,,,100,1,Each,,false,,,120,,120,jdoe,,
11,1,Prune - TREE-001 - May 2027,TREE-001,,Trees > Oak Tree > Prune,Open,2027-05-01,,,true,2,years,50,1,Each,1.15,false,,,69,80,80,jdoe,,
12,2,Survey - New Pond,,New Pond,Custom Action,Open,2026-09-01,,,false,,,100,,,,true,Survey,500,500,,500,,,
13,2,Legacy,WET-001,Old Pond,Wetlands > Marsh > Weed Control,Open,2026-06-01,,,false,,,100,250,m2,,false,,,625,,625,,,
14,99,Orphan,TREE-001,,Trees > Oak Tree > Prune,Open,2026-06-01,,,false,,,100,,,,false,,,120,,120,,,
15,1,No Target,,,Trees > Oak Tree > Prune,Open,2026-06-01,,,false,,,100,,,,false,,,120,,120,,,
16,1,Bad Path,TREE-001,,Prune,Open,2026-06-01,,,false,,,100,,,,false,,,120,,120,,,
`,
		AuditTrailFile: `
id,entityType,entityId,field,oldValue,newValue,changedBy,changedDate
100,Project,1,status,Planning,In Progress,jdoe,2025-02-01T08:00:00.000Z
101,action,12,created,,Survey - New Pond,,
102,Widget,1,status,a,b,,
`,
	}
}

func TestLoadSeed(t *testing.T) {
	dir := writeTables(t, seedTables())

	seed, report, err := LoadSeed(dir, importNow, nil)
	require.NoError(t, err)

	require.Len(t, seed.Projects, 2)
	tree, wet := seed.Projects[0], seed.Projects[1]

	assert.Equal(t, "PROJ-2025-001", tree.Code)
	assert.Equal(t, domain.ProjectInProgress, tree.Status)
	assert.Equal(t, "Funded", tree.FundingStatus)
	assert.Equal(t, "2025-01-01", domain.FormatDate(tree.StartDate))
	assert.Equal(t, time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC), tree.CreatedAt)

	assert.Equal(t, domain.DefaultFundingStatus, wet.FundingStatus)
	assert.Equal(t, domain.DefaultProjectType, wet.ProjectType)
	assert.Equal(t, importNow, wet.CreatedAt)

	require.Len(t, tree.Actions, 2)
	done, recurring := tree.Actions[0], tree.Actions[1]
	assert.Equal(t, domain.ActionCompleted, done.Status)
	assert.Equal(t, "2025-05-03", domain.FormatDate(done.CompletedDate))
	assert.Equal(t, "10", done.SeriesID)
	assert.True(t, recurring.Recurrence.Enabled)
	assert.Equal(t, domain.Recurrence{Enabled: true, Value: 2, Unit: domain.RecurYears}, recurring.Recurrence)
	require.NotNil(t, recurring.OverrideCost)
	assert.Equal(t, 80, recurring.Cost)
	require.NotNil(t, recurring.AdjustmentFactor)
	assert.InDelta(t, 1.15, *recurring.AdjustmentFactor, 1e-9)

	require.Len(t, wet.Actions, 2)
	custom := wet.Actions[0]
	assert.Equal(t, domain.PlannedTarget{Name: "New Pond"}, custom.Target)
	assert.Equal(t, domain.CustomActionRef{Name: "Survey", Cost: 500}, custom.Descriptor)
	legacy := wet.Actions[1]
	assert.Equal(t, domain.AssetTarget{AssetID: "WET-001"}, legacy.Target, "legacy rows keep the asset")

	require.Len(t, seed.Audit, 2)
	assert.Equal(t, domain.EntityProject, seed.Audit[0].EntityType)
	assert.Equal(t, domain.EntityAction, seed.Audit[1].EntityType)
	assert.Equal(t, domain.DefaultActor, seed.Audit[1].ChangedBy)
	assert.Equal(t, importNow, seed.Audit[1].ChangedAt)

	assert.Equal(t, 4, seed.ActionCount())

	var skipped []string
	for _, s := range report.Skipped {
		skipped = append(skipped, s.String())
	}
	assert.Len(t, report.Skipped, 6, "skipped: %v", skipped)
	require.Len(t, report.Diagnostics, 1)
	assert.Contains(t, report.Diagnostics[0], "keeping the asset")
	assert.True(t, report.HasProblems())
}

func TestLoadSeed_MissingTablesAreEmpty(t *testing.T) {
	seed, report, err := LoadSeed(t.TempDir(), importNow, nil)
	require.NoError(t, err)
	assert.Empty(t, seed.Projects)
	assert.Empty(t, seed.Audit)
	assert.False(t, report.HasProblems())
}
