package engine

import (
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, Binning and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView, zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
// NaN measures are missing values: sums, means and counts skip them.
// ============================================================================

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit. aggregation is "count" or
// "rate" (percentage of a 0/1 measure over its known values).
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	// 1. Group
	var groups []Group
	if len(groupBy) == 0 {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else if len(groupBy) == 1 {
		groups = GroupBy(view, groupBy[0])
	} else {
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

// GroupBy partitions a view by one dimension.
// Groups come back in first-seen order of the dimension value.
func GroupBy(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) []Group {
	primaryGroups := GroupBy(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = GroupBy(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case "rate":
		group.Value, _ = RateMeasure(group.View, measure)
	default:
		group.Value = float64(group.Count)
	}
}

// SumMeasure sums the known values of a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		total += v
	}
	return total
}

// CountMeasure counts records whose measure value is known.
func CountMeasure(view RecordView, measure string) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if !math.IsNaN(view.Measure(i, measure)) {
			n++
		}
	}
	return n
}

// MeanMeasure returns the mean of the known values and how many there were.
// With no known values the mean is NaN.
func MeanMeasure(view RecordView, measure string) (float64, int) {
	var total float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		total += v
		n++
	}
	if n == 0 {
		return math.NaN(), 0
	}
	return total / float64(n), n
}

// RateMeasure returns 100 × sum / known for a 0/1 measure, and the number
// of known values. With nothing known the rate is 0.
func RateMeasure(view RecordView, measure string) (float64, int) {
	known := CountMeasure(view, measure)
	if known == 0 {
		return 0, 0
	}
	return 100 * SumMeasure(view, measure) / float64(known), known
}

// MaxMeasure returns the largest known value of a named measure.
func MaxMeasure(view RecordView, measure string) float64 {
	m := math.Inf(-1)
	found := false
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if !found || v > m {
			m = v
			found = true
		}
	}
	if !found {
		return 0
	}
	return m
}

// MinMeasure returns the smallest known value of a named measure.
func MinMeasure(view RecordView, measure string) float64 {
	m := math.Inf(1)
	found := false
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			continue
		}
		if !found || v < m {
			m = v
			found = true
		}
	}
	if !found {
		return 0
	}
	return m
}

// ============================================================================
// BINNING
// ============================================================================

// Bin is one equal-width histogram bucket, [Lo, Hi).
// The last bucket of a set also includes Hi.
type Bin struct {
	Lo float64
	Hi float64
}

// Bins splits [lo, hi] into n equal-width buckets.
// A degenerate range (lo == hi) yields one unit-wide bucket.
func Bins(lo, hi float64, n int) []Bin {
	if n <= 0 {
		n = 1
	}
	if hi <= lo {
		return []Bin{{Lo: lo, Hi: lo + 1}}
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := 0; i < n; i++ {
		bins[i] = Bin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}
	bins[n-1].Hi = hi
	return bins
}

// BinIndex returns the bucket holding v, or -1 when v is outside every bucket.
func BinIndex(bins []Bin, v float64) int {
	if len(bins) == 0 || math.IsNaN(v) {
		return -1
	}
	last := len(bins) - 1
	if v < bins[0].Lo || v > bins[last].Hi {
		return -1
	}
	if v == bins[last].Hi {
		return last
	}
	width := bins[0].Hi - bins[0].Lo
	idx := int((v - bins[0].Lo) / width)
	if idx > last {
		idx = last
	}
	// Guard against float drift at bucket edges.
	for idx > 0 && v < bins[idx].Lo {
		idx--
	}
	for idx < last && v >= bins[idx].Hi {
		idx++
	}
	return idx
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts aggregate groups by the specified sort mode.
// Unknown modes keep grouping (first-seen) order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "label_asc", "alpha_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case "label_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	default:
		// preserve grouping order
	}
}

// ============================================================================
// HELPERS
// ============================================================================

// UniqueValues returns distinct non-empty values for a dimension, first-seen order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
