package engine

import (
	"github.com/spektr-org/hrpulse/schema"
)

// ============================================================================
// KPI CALCULATOR — Attrition rate, average tenure, average income
// ============================================================================
// Each metric checks emptiness first, then that its column exists.
// Attrition rate averages only records with a known flag; an out-of-enum
// Attrition value is carried as a missing flag, never coerced to 0.
// ============================================================================

// KPI keys and labels as shown on the dashboard cards.
const (
	KPIAttritionRate = "attrition_rate"
	KPIAverageTenure = "average_tenure"
	KPIAverageIncome = "average_income"

	LabelAttritionRate = "Attrition Rate"
	LabelAverageTenure = "Avg Tenure (Years)"
	LabelAverageIncome = "Avg Monthly Income"
)

// AttritionRate returns 100 × leavers / records with a known flag.
func AttritionRate(view RecordView) (float64, error) {
	if err := checkColumn(view, KPIAttritionRate, schema.AttritionFlag); err != nil {
		return 0, err
	}
	rate, known := RateMeasure(view, schema.AttritionFlag)
	if known == 0 {
		return 0, &EmptyDatasetError{Metric: KPIAttritionRate, Detail: "no known " + schema.AttritionFlag + " values"}
	}
	return rate, nil
}

// AverageTenure returns mean(YearsAtCompany).
func AverageTenure(view RecordView) (float64, error) {
	return meanOf(view, KPIAverageTenure, schema.YearsAtCompany)
}

// AverageIncome returns mean(MonthlyIncome).
func AverageIncome(view RecordView) (float64, error) {
	return meanOf(view, KPIAverageIncome, schema.MonthlyIncome)
}

// ComputeKPIs evaluates all three metrics and their display strings.
// The first failing metric aborts the set.
func ComputeKPIs(view RecordView, opts FormatOptions) (*KPISet, error) {
	rate, err := AttritionRate(view)
	if err != nil {
		return nil, err
	}
	tenure, err := AverageTenure(view)
	if err != nil {
		return nil, err
	}
	income, err := AverageIncome(view)
	if err != nil {
		return nil, err
	}

	return &KPISet{
		AttritionRate: rate,
		AverageTenure: tenure,
		AverageIncome: income,
		Metrics: []Metric{
			{Key: KPIAttritionRate, Label: LabelAttritionRate, Value: FormatRate(rate), Raw: rate},
			{Key: KPIAverageTenure, Label: LabelAverageTenure, Value: FormatTenure(tenure), Raw: tenure},
			{Key: KPIAverageIncome, Label: LabelAverageIncome, Value: opts.FormatIncome(income), Raw: income},
		},
	}, nil
}

func meanOf(view RecordView, metric, column string) (float64, error) {
	if err := checkColumn(view, metric, column); err != nil {
		return 0, err
	}
	mean, n := MeanMeasure(view, column)
	if n == 0 {
		return 0, &EmptyDatasetError{Metric: metric, Detail: "no known " + column + " values"}
	}
	return mean, nil
}

// checkColumn reports an empty view first, then a missing column.
func checkColumn(view RecordView, metric, column string) error {
	if view == nil || view.Len() == 0 {
		return &EmptyDatasetError{Metric: metric}
	}
	if !HasMeasure(view, column) {
		return &SchemaError{Chart: metric, Column: column}
	}
	return nil
}
