package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportProjects() []*domain.Project {
	p := testutil.NewTestProject(`Tree "Care"`, testutil.WithCode("PROJ-2026-001"), testutil.WithTeamAndRegion("Parks", "North"))
	p.Actions = []domain.Action{
		testutil.NewTestAction(p.ID, "TREE-001",
			testutil.WithDue(time.Date(2027, time.May, 1, 0, 0, 0, 0, time.UTC)),
			testutil.WithOverrideDate(time.Date(2028, time.June, 2, 0, 0, 0, 0, time.UTC))),
		testutil.NewTestAction(p.ID, "",
			testutil.WithPlannedAsset("New Pond"),
			testutil.WithStatus(domain.ActionCompleted),
			testutil.WithDue(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)),
			testutil.WithCompletedDate(time.Date(2026, time.April, 3, 0, 0, 0, 0, time.UTC)),
			testutil.WithCost(5000)),
	}
	return []*domain.Project{p}
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(exportProjects(), testutil.NewTestDataset())
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "PROJ-2026-001", first.ProjectCode)
	assert.Equal(t, "North", first.Region)
	assert.Equal(t, "Trees", first.AssetClass)
	assert.Equal(t, "Old Oak", first.AssetName)
	assert.Equal(t, "1", first.AssetSize)
	assert.Equal(t, "2028", first.ActionYear)
	assert.Equal(t, "2028-06-02", first.DueDate, "override date wins")
	assert.Equal(t, 120, first.ActionCost)

	planned := rows[1]
	assert.Empty(t, planned.AssetName)
	assert.Empty(t, planned.AssetClass)
	assert.Equal(t, "Completed", planned.Status)
	assert.Equal(t, "2026-04-03", planned.CompletedDate)
	assert.Equal(t, 5000, planned.ActionCost)
}

func TestWriteActionsCSV_QuotesEveryValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteActionsCSV(&buf, BuildRows(exportProjects(), testutil.NewTestDataset())))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Project Name,Project ID,Region Name,Asset Class,Asset Name,Asset Size,Action Name,Action Cost,Action Year,Status,Due Date,Completed Date", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Tree ""Care""","PROJ-2026-001","North"`))
	assert.Contains(t, lines[2], `"","","",`)

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `Tree "Care"`, records[1][0])
	assert.Len(t, records[1], len(Header))
}

func TestWriteActionsCSV_EmptyWritesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteActionsCSV(&buf, nil))
	assert.Equal(t, strings.Join(Header, ",")+"\n", buf.String())
}
