package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/schema"
)

const hrCSV = `Age,Attrition,BusinessTravel,Department,EnvironmentSatisfaction,JobRole,JobSatisfaction,MonthlyIncome,YearsAtCompany
41,Yes,Travel_Rarely,Sales,2,Sales Executive,4,5993,6
49,No,Travel_Frequently,Research & Development,3,Research Scientist,2,5130,10
37,Yes,Travel_Rarely,Research & Development,4,Laboratory Technician,3,2090,0
33,No,Travel_Frequently,Research & Development,4,Research Scientist,3,2909,8
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ============================================================================
// LOAD
// ============================================================================

func TestLoad(t *testing.T) {
	ds, err := Load(writeCSV(t, hrCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, []string{
		schema.Age, schema.Attrition, schema.Department, schema.EnvironmentSatisfaction,
		schema.JobRole, schema.JobSatisfaction, schema.MonthlyIncome, schema.YearsAtCompany,
	}, ds.Columns)
	assert.False(t, ds.Has("BusinessTravel"))
	assert.False(t, ds.ModTime.IsZero())
	assert.Equal(t, int64(len(hrCSV)), ds.Size)

	first := ds.Employees[0]
	assert.Equal(t, "Sales", first.Department)
	assert.Equal(t, "Sales Executive", first.JobRole)
	assert.Equal(t, 41.0, first.Age)
	assert.Equal(t, 5993.0, first.MonthlyIncome)
	assert.True(t, first.Left())
	assert.False(t, ds.Employees[1].Left())
	assert.True(t, ds.Employees[1].FlagKnown())
}

func TestLoadViewFeedsEngine(t *testing.T) {
	ds, err := Load(writeCSV(t, hrCSV))
	require.NoError(t, err)

	view := ds.View()
	assert.Equal(t, 4, view.Len())
	assert.True(t, engine.HasMeasure(view, schema.AttritionFlag))

	rate, err := engine.AttritionRate(view)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rate)

	table, err := engine.AttritionRateByJobRole(view, engine.DefaultJobRoleOrder)
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), table.TotalCount())
}

func TestLoadIsRepeatable(t *testing.T) {
	path := writeCSV(t, hrCSV)

	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, a.Employees, b.Employees)
	assert.Equal(t, a.Columns, b.Columns)
	assert.Equal(t, a.ModTime, b.ModTime)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)

	var loadErr *engine.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "file not found", loadErr.Reason)
	assert.ErrorIs(t, err, engine.ErrLoad)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMissingAttritionColumn(t *testing.T) {
	_, err := Load(writeCSV(t, "Age,Department\n41,Sales\n"))
	var loadErr *engine.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Reason, schema.Attrition)
}

func TestLoadMalformedCSV(t *testing.T) {
	_, err := Load(writeCSV(t, "Age,Attrition\n41,Yes,extra\n"))
	assert.ErrorIs(t, err, engine.ErrLoad)
}

func TestLoadNonNumericMeasure(t *testing.T) {
	_, err := Load(writeCSV(t, "Age,Attrition\nforty,Yes\n"))
	var loadErr *engine.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Reason, "line 2")
	assert.Contains(t, loadErr.Error(), "not a number")
}

func TestLoadOutOfRangeMeasure(t *testing.T) {
	_, err := Load(writeCSV(t, "JobSatisfaction,Attrition\n7,Yes\n"))
	assert.ErrorIs(t, err, engine.ErrLoad)
}

func TestLoadHeaderOnlyIsEmpty(t *testing.T) {
	ds, err := Load(writeCSV(t, "Age,Attrition,YearsAtCompany\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())

	_, err = engine.AttritionRate(ds.View())
	assert.ErrorIs(t, err, engine.ErrEmptyDataset)
}

func TestLoadEmptyCellIsMissing(t *testing.T) {
	ds, err := Parse([]byte("Age,Attrition,MonthlyIncome\n30,No,\n40,Yes,1000\n"), "inline")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ds.Employees[0].MonthlyIncome))

	income, err := engine.AverageIncome(ds.View())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, income)
}

// ============================================================================
// ATTRITION VALUES
// ============================================================================

func TestParseUnknownAttritionIsMissing(t *testing.T) {
	ds, err := Parse([]byte("Attrition,JobRole\nYes,A\nNo,A\nMaybe,B\n"), "inline")
	require.NoError(t, err)

	assert.Equal(t, 1, ds.UnknownAttrition)
	assert.False(t, ds.Employees[2].FlagKnown())

	rate, err := engine.AttritionRate(ds.View())
	require.NoError(t, err)
	assert.Equal(t, 50.0, rate)
}

func TestParseAttritionMatchesExactly(t *testing.T) {
	ds, err := Parse([]byte("Attrition,JobRole\n Yes,A\nNo ,A\nyes,A\nYes,A\n"), "inline")
	require.NoError(t, err)

	assert.Equal(t, 3, ds.UnknownAttrition)
	for i := 0; i < 3; i++ {
		assert.False(t, ds.Employees[i].FlagKnown(), "row %d", i)
	}
	assert.Equal(t, " Yes", ds.Employees[0].Attrition)
	assert.True(t, ds.Employees[3].Left())

	rate, err := engine.AttritionRate(ds.View())
	require.NoError(t, err)
	assert.Equal(t, 100.0, rate)
}

func TestParseKeepsCategoryWhitespace(t *testing.T) {
	ds, err := Parse([]byte("Attrition,Department,JobRole\nYes,Sales,A\nNo, Sales,A \n"), "inline")
	require.NoError(t, err)

	assert.Equal(t, " Sales", ds.Employees[1].Department)
	assert.Equal(t, "A ", ds.Employees[1].JobRole)

	groups := engine.GroupBy(ds.View(), schema.Department)
	assert.Len(t, groups, 2)
	table, err := engine.AttritionRateByJobRole(ds.View(), "first_seen")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestParseStrictAttrition(t *testing.T) {
	_, err := Parse([]byte("Attrition\nYes\nyes\n"), "inline", WithStrictAttrition(true))
	var loadErr *engine.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Contains(t, loadErr.Reason, "line 3")
}

func TestParseMissingDepartmentSurfacesAsSchemaError(t *testing.T) {
	ds, err := Parse([]byte("Attrition,Age\nYes,30\n"), "inline")
	require.NoError(t, err)

	spec, _ := engine.FindChart(engine.ChartAttritionByDepartment)
	_, err = engine.BuildChartData(spec, ds.View())
	var schemaErr *engine.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, schema.Department, schemaErr.Column)
}

func TestParseUTF8BOM(t *testing.T) {
	ds, err := Parse(append([]byte{0xEF, 0xBB, 0xBF}, hrCSV...), "bom")
	require.NoError(t, err)
	assert.True(t, ds.Has(schema.Age))
	assert.Equal(t, "utf-8-bom", ds.Encoding)
}

// ============================================================================
// CACHE
// ============================================================================

type countingObserver struct {
	hits, misses, loads int
}

func (o *countingObserver) ObserveCacheHit()                 { o.hits++ }
func (o *countingObserver) ObserveCacheMiss()                { o.misses++ }
func (o *countingObserver) ObserveLoad(time.Duration, error) { o.loads++ }

func TestCacheReturnsSameDataset(t *testing.T) {
	path := writeCSV(t, hrCSV)
	obs := &countingObserver{}
	cache := NewCache(obs, nil)

	first, err := cache.Get(path)
	require.NoError(t, err)
	second, err := cache.Get(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, obs.misses)
	assert.Equal(t, 1, obs.hits)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheReloadsChangedFile(t *testing.T) {
	path := writeCSV(t, hrCSV)
	cache := NewCache(nil, nil)

	first, err := cache.Get(path)
	require.NoError(t, err)

	updated := hrCSV + "27,No,Travel_Rarely,Research & Development,1,Laboratory Technician,2,3468,2\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))
	later := first.ModTime.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := cache.Get(path)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 5, second.Len())
}

func TestCacheInvalidateAndPurge(t *testing.T) {
	path := writeCSV(t, hrCSV)
	obs := &countingObserver{}
	cache := NewCache(obs, nil)

	_, err := cache.Get(path)
	require.NoError(t, err)
	cache.Invalidate(path)
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Get(path)
	require.NoError(t, err)
	assert.Equal(t, 2, obs.misses)

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheMissingFile(t *testing.T) {
	cache := NewCache(nil, nil)
	_, err := cache.Get(filepath.Join(t.TempDir(), "gone.csv"))
	assert.ErrorIs(t, err, engine.ErrLoad)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheStrictOptionApplies(t *testing.T) {
	path := writeCSV(t, "Attrition\nUnknown\n")
	cache := NewCache(nil, nil, WithStrictAttrition(true))

	_, err := cache.Get(path)
	assert.ErrorIs(t, err, engine.ErrLoad)
}
