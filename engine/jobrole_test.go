package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/hrpulse/schema"
)

func TestAttritionRateByJobRoleFirstSeenOrder(t *testing.T) {
	table, err := AttritionRateByJobRole(sampleView(), "first_seen")
	require.NoError(t, err)

	roles := make([]string, len(table.Rows))
	for i, r := range table.Rows {
		roles[i] = r.JobRole
	}
	assert.Equal(t, []string{"Sales Executive", "Research Scientist", "Laboratory Technician", "Human Resources"}, roles)

	assert.Equal(t, 50.0, table.Rows[0].Rate)
	assert.Equal(t, 0.0, table.Rows[1].Rate)
	assert.Equal(t, 50.0, table.Rows[2].Rate)
	assert.Equal(t, 1, table.Rows[2].Leavers)
	assert.True(t, table.Rows[3].Defined)
}

func TestAttritionRateByJobRolePartitionsDataset(t *testing.T) {
	view := sampleView()
	table, err := AttritionRateByJobRole(view, DefaultJobRoleOrder)
	require.NoError(t, err)

	assert.Equal(t, view.Len(), table.TotalCount())

	seen := make(map[string]int)
	for _, r := range table.Rows {
		seen[r.JobRole]++
		assert.GreaterOrEqual(t, r.Rate, 0.0)
		assert.LessOrEqual(t, r.Rate, 100.0)
	}
	for _, role := range UniqueValues(view, schema.JobRole) {
		assert.Equal(t, 1, seen[role], "role %s should appear exactly once", role)
	}
}

func TestAttritionRateByJobRoleUndefinedPartition(t *testing.T) {
	view := NewSliceView([]Record{
		employee("Sales", "Yes", "Sales Executive", 30, 1, 1000),
		employee("Sales", "??", "Manager", 50, 20, 9000),
	})

	table, err := AttritionRateByJobRole(view, "first_seen")
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.False(t, table.Rows[1].Defined)
	assert.Equal(t, 0, table.Rows[1].Flagged)
	assert.Equal(t, 1, table.Rows[1].Count)
}

func TestAttritionRateByJobRoleMissingColumn(t *testing.T) {
	view := NewSliceView([]Record{{
		Dimensions: map[string]string{schema.Attrition: "No"},
		Measures:   map[string]float64{schema.AttritionFlag: 0},
	}})

	_, err := AttritionRateByJobRole(view, DefaultJobRoleOrder)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, schema.JobRole, schemaErr.Column)
}

func TestAttritionRateByJobRoleSorted(t *testing.T) {
	table, err := AttritionRateByJobRole(sampleView(), "label_asc")
	require.NoError(t, err)
	roles := make([]string, len(table.Rows))
	for i, r := range table.Rows {
		roles[i] = r.JobRole
	}
	assert.Equal(t, []string{"Human Resources", "Laboratory Technician", "Research Scientist", "Sales Executive"}, roles)

	table, err = AttritionRateByJobRole(sampleView(), "value_asc")
	require.NoError(t, err)
	assert.Equal(t, 0.0, table.Rows[0].Rate)
	assert.Equal(t, 50.0, table.Rows[3].Rate)
}

func TestAttritionRateByJobRoleExactRatio(t *testing.T) {
	view := NewSliceView([]Record{
		employee("Sales", "Yes", "A", 30, 1, 1000),
		employee("Sales", "No", "A", 30, 1, 1000),
		employee("Sales", "No", "A", 30, 1, 1000),
		employee("Sales", "Yes", "A", 30, 1, 1000),
		employee("Sales", "No", "A", 30, 1, 1000),
		employee("Sales", "No", "A", 30, 1, 1000),
		employee("Sales", "No", "A", 30, 1, 1000),
	})
	table, err := AttritionRateByJobRole(view, DefaultJobRoleOrder)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, 100*float64(2)/float64(7), table.Rows[0].Rate)
	assert.Equal(t, 2, table.Rows[0].Leavers)
}

func TestSortRowsAlphabetical(t *testing.T) {
	table, err := AttritionRateByJobRole(sampleView(), "first_seen")
	require.NoError(t, err)

	SortRows(table, "label_asc")
	assert.Equal(t, "Human Resources", table.Rows[0].JobRole)
	assert.Equal(t, "Sales Executive", table.Rows[len(table.Rows)-1].JobRole)
}

func TestBuildJobRoleTable(t *testing.T) {
	table, err := AttritionRateByJobRole(sampleView(), "first_seen")
	require.NoError(t, err)

	data := BuildJobRoleTable("Attrition Rate by Job Role", table, DefaultFormat())
	require.Len(t, data.Columns, 4)
	require.Len(t, data.Rows, 4)
	assert.Equal(t, []string{"Sales Executive", "50.0", "2", "1"}, data.Rows[0])
	assert.Equal(t, "7", data.Summary.Values["count"])
	assert.Equal(t, fmt.Sprintf("%.1f", 200.0/7.0), data.Summary.Values["rate"])
}
