package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/hrpulse/schema"
)

func TestGroupByFirstSeenOrder(t *testing.T) {
	groups := GroupBy(sampleView(), schema.Department)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"Sales", "Research & Development", "Human Resources"},
		[]string{groups[0].Key, groups[1].Key, groups[2].Key})
	assert.Equal(t, []int{2, 4, 1}, []int{groups[0].Count, groups[1].Count, groups[2].Count})
	assert.Equal(t, 4, groups[1].View.Len())
}

func TestGroupAndAggregateRate(t *testing.T) {
	groups := GroupAndAggregate(sampleView(), []string{schema.Department}, schema.AttritionFlag, "rate", "value_desc", 0)

	require.Len(t, groups, 3)
	assert.Equal(t, "Sales", groups[0].Key)
	assert.InDelta(t, 50.0, groups[0].Value, 1e-9)
	assert.InDelta(t, 25.0, groups[1].Value, 1e-9)
	assert.Equal(t, 0.0, groups[2].Value)
}

func TestGroupAndAggregateTwoLevels(t *testing.T) {
	groups := GroupAndAggregate(sampleView(), []string{schema.Attrition, schema.Department}, "", "count", "", 0)

	require.Len(t, groups, 2)
	assert.Equal(t, schema.AttritionYes, groups[0].Key)
	assert.Equal(t, 2.0, groups[0].Value)
	require.Len(t, groups[1].SubGroups, 3)
	assert.Equal(t, "Research & Development", groups[1].SubGroups[0].Key)
	assert.Equal(t, 3.0, groups[1].SubGroups[0].Value)
	assert.Equal(t, "Sales", groups[1].SubGroups[1].Key)
}

func TestGroupAndAggregateLimitAndEmpty(t *testing.T) {
	groups := GroupAndAggregate(sampleView(), []string{schema.JobRole}, "", "count", "label_desc", 2)
	require.Len(t, groups, 2)
	assert.Equal(t, "Sales Executive", groups[0].Key)
	assert.Equal(t, 2.0, groups[0].Value)
	assert.Equal(t, "Research Scientist", groups[1].Key)

	assert.Nil(t, GroupAndAggregate(NewSliceView(nil), []string{schema.JobRole}, "", "count", "", 0))
}

func TestMeasureAggregatesSkipMissing(t *testing.T) {
	view := NewSliceView([]Record{
		employee("Sales", "Yes", "A", 30, 1, 1000),
		employee("Sales", "Maybe", "A", 40, 2, 2000),
		employee("Sales", "No", "A", 50, 3, 3000),
	})

	assert.Equal(t, 1.0, SumMeasure(view, schema.AttritionFlag))
	assert.Equal(t, 2, CountMeasure(view, schema.AttritionFlag))
	mean, n := MeanMeasure(view, schema.AttritionFlag)
	assert.Equal(t, 0.5, mean)
	assert.Equal(t, 2, n)
	assert.Equal(t, 30.0, MinMeasure(view, schema.Age))
	assert.Equal(t, 50.0, MaxMeasure(view, schema.Age))

	mean, n = MeanMeasure(view, "Unknown")
	assert.True(t, math.IsNaN(mean))
	assert.Zero(t, n)
}

func TestRateMeasureIsExactRatio(t *testing.T) {
	rate, known := RateMeasure(sampleView(), schema.AttritionFlag)
	assert.Equal(t, 7, known)
	assert.Equal(t, 100*2.0/7.0, rate)

	rate, known = RateMeasure(sampleView(), "Unknown")
	assert.Zero(t, rate)
	assert.Zero(t, known)
}

func TestSortGroupsModes(t *testing.T) {
	groups := func() []Group {
		return []Group{{Key: "b", Value: 2}, {Key: "C", Value: 1}, {Key: "a", Value: 3}}
	}
	keys := func(gs []Group) []string {
		out := make([]string, len(gs))
		for i, g := range gs {
			out[i] = g.Key
		}
		return out
	}

	cases := map[string][]string{
		"value_desc": {"a", "b", "C"},
		"value_asc":  {"C", "b", "a"},
		"label_asc":  {"a", "b", "C"},
		"label_desc": {"C", "b", "a"},
		"first_seen": {"b", "C", "a"},
	}
	for mode, want := range cases {
		gs := groups()
		SortGroups(gs, mode)
		assert.Equal(t, want, keys(gs), mode)
	}
}

func TestBins(t *testing.T) {
	bins := Bins(18, 60, 20)
	require.Len(t, bins, 20)
	assert.Equal(t, 18.0, bins[0].Lo)
	assert.Equal(t, 60.0, bins[19].Hi)
	assert.InDelta(t, 2.1, bins[0].Hi-bins[0].Lo, 1e-9)

	assert.Equal(t, []Bin{{Lo: 30, Hi: 31}}, Bins(30, 30, 20))
	assert.Len(t, Bins(0, 10, 0), 1)
}

func TestBinIndex(t *testing.T) {
	bins := Bins(0, 10, 5)

	assert.Equal(t, 0, BinIndex(bins, 0))
	assert.Equal(t, 0, BinIndex(bins, 1.99))
	assert.Equal(t, 1, BinIndex(bins, 2))
	assert.Equal(t, 4, BinIndex(bins, 10))
	assert.Equal(t, -1, BinIndex(bins, 10.01))
	assert.Equal(t, -1, BinIndex(bins, -1))
	assert.Equal(t, -1, BinIndex(bins, math.NaN()))
	assert.Equal(t, -1, BinIndex(nil, 1))
}

func TestUniqueValuesSkipsEmpty(t *testing.T) {
	view := NewSliceView([]Record{
		employee("Sales", "Yes", "A", 30, 1, 1000),
		employee("", "No", "B", 40, 2, 2000),
		employee("Sales", "No", "A", 50, 3, 3000),
	})
	assert.Equal(t, []string{"Sales"}, UniqueValues(view, schema.Department))
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 33.33, RoundTo2(100.0/3.0))
	assert.Equal(t, 2.0, RoundTo2(2))
}
