package engine

import (
	"sort"
	"strings"

	"github.com/spektr-org/hrpulse/schema"
)

// AttritionRateByJobRole partitions the view by JobRole and computes
// 100 × leavers / known flags per partition. sortBy is "label_asc",
// "label_desc", "value_desc" or "value_asc"; anything else keeps first-seen
// JobRole order.
func AttritionRateByJobRole(view RecordView, sortBy string) (JobRoleAttritionTable, error) {
	const metric = "attrition_rate_by_job_role"

	if view == nil || view.Len() == 0 {
		return JobRoleAttritionTable{}, &EmptyDatasetError{Metric: metric}
	}
	if !HasDimension(view, schema.JobRole) {
		return JobRoleAttritionTable{}, &SchemaError{Chart: metric, Column: schema.JobRole}
	}
	if !HasMeasure(view, schema.AttritionFlag) {
		return JobRoleAttritionTable{}, &SchemaError{Chart: metric, Column: schema.AttritionFlag}
	}

	groups := GroupAndAggregate(view, []string{schema.JobRole}, schema.AttritionFlag, "rate", sortBy, 0)
	rows := make([]JobRoleRate, 0, len(groups))
	for _, g := range groups {
		known := CountMeasure(g.View, schema.AttritionFlag)
		rows = append(rows, JobRoleRate{
			JobRole: g.Key,
			Rate:    g.Value,
			Count:   g.Count,
			Flagged: known,
			Leavers: int(SumMeasure(g.View, schema.AttritionFlag)),
			Defined: known > 0,
		})
	}
	return JobRoleAttritionTable{Rows: rows}, nil
}

// SortRows reorders an already built table in place, with the same modes as
// AttritionRateByJobRole. Anything else leaves the order unchanged.
func SortRows(table JobRoleAttritionTable, sortBy string) {
	rows := table.Rows
	switch sortBy {
	case "label_asc", "alpha_asc":
		sort.SliceStable(rows, func(i, j int) bool { return strings.ToLower(rows[i].JobRole) < strings.ToLower(rows[j].JobRole) })
	case "label_desc":
		sort.SliceStable(rows, func(i, j int) bool { return strings.ToLower(rows[i].JobRole) > strings.ToLower(rows[j].JobRole) })
	case "value_desc":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate > rows[j].Rate })
	case "value_asc":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate < rows[j].Rate })
	}
}
