package engine

import (
	"fmt"

	"github.com/spektr-org/hrpulse/schema"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from the job-role aggregation
// ============================================================================

// BuildJobRoleTable renders the job-role attrition table for display.
// Undefined rates (no known flag in the partition) show as "n/a".
func BuildJobRoleTable(title string, table JobRoleAttritionTable, opts FormatOptions) *TableData {
	columns := []Column{
		{Key: "job_role", Label: LabelForDimension(schema.JobRole), Type: "text", Align: "left"},
		{Key: "rate", Label: LabelForAggregation("rate"), Type: "percent", Align: "right"},
		{Key: "count", Label: "Employees", Type: "number", Align: "right"},
		{Key: "leavers", Label: "Leavers", Type: "number", Align: "right"},
	}

	if len(table.Rows) == 0 {
		return &TableData{
			Title:   title,
			Columns: columns,
			Rows:    [][]string{},
		}
	}

	rows := make([][]string, 0, len(table.Rows))
	var totalCount, totalLeavers, totalFlagged int

	for _, r := range table.Rows {
		rate := "n/a"
		if r.Defined {
			rate = fmt.Sprintf("%.1f", r.Rate)
		}
		rows = append(rows, []string{
			r.JobRole,
			rate,
			opts.FormatInt(r.Count),
			opts.FormatInt(r.Leavers),
		})
		totalCount += r.Count
		totalLeavers += r.Leavers
		totalFlagged += r.Flagged
	}

	overall := "n/a"
	if totalFlagged > 0 {
		overall = fmt.Sprintf("%.1f", float64(totalLeavers)/float64(totalFlagged)*100)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d roles)", len(table.Rows)),
			Values: map[string]string{
				"rate":    overall,
				"count":   opts.FormatInt(totalCount),
				"leavers": opts.FormatInt(totalLeavers),
			},
		},
	}
}
