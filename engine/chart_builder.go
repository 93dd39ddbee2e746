package engine

import (
	"fmt"
	"math"

	"github.com/spektr-org/hrpulse/schema"
)

// ============================================================================
// CHART BUILDER — Declarative dashboard charts and their series
// ============================================================================
// DashboardCharts describes WHAT to plot. BuildChartData materialises the
// series a renderer needs. Renderers never touch the RecordView.
// ============================================================================

// Chart ids, stable across releases; hosts address charts by these.
const (
	ChartAttritionByDepartment = "attrition_by_department"
	ChartAgeDistribution       = "age_distribution"
	ChartAttritionByJobRole    = "attrition_rate_by_job_role"
	ChartSatisfaction          = "satisfaction_vs_attrition"
	ChartIncomeVsTenure        = "income_vs_tenure"
)

// AgeBins is the bin count of the age histogram.
const AgeBins = 20

// DefaultJobRoleOrder sorts job roles alphabetically in the table and chart.
const DefaultJobRoleOrder = "label_asc"

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// DashboardCharts returns the five dashboard charts in display order.
func DashboardCharts() []ChartSpec {
	hr := schema.HR()
	return []ChartSpec{
		{
			ID:         ChartAttritionByDepartment,
			Kind:       KindHistogram,
			Title:      "Attrition Count by Department",
			XField:     schema.Department,
			ColorField: schema.Attrition,
			BarMode:    "group",
		},
		{
			ID:         ChartAgeDistribution,
			Kind:       KindHistogram,
			Title:      "Age Distribution by Attrition Status",
			XField:     schema.Age,
			ColorField: schema.Attrition,
			Bins:       AgeBins,
		},
		{
			ID:     ChartAttritionByJobRole,
			Kind:   KindBar,
			Title:  "Attrition Rate by Job Role",
			XField: schema.JobRole,
			YField: schema.AttritionRate,
			SortBy: DefaultJobRoleOrder,
			Labels: map[string]string{schema.AttritionRate: LabelForAggregation("rate")},
		},
		{
			ID:         ChartSatisfaction,
			Kind:       KindScatter,
			Title:      "Satisfaction Ratings vs Attrition",
			XField:     schema.JobSatisfaction,
			YField:     schema.EnvironmentSatisfaction,
			ColorField: schema.Attrition,
			Labels: map[string]string{
				schema.JobSatisfaction:         hr.DisplayName(schema.JobSatisfaction),
				schema.EnvironmentSatisfaction: hr.DisplayName(schema.EnvironmentSatisfaction),
			},
		},
		{
			ID:         ChartIncomeVsTenure,
			Kind:       KindScatter,
			Title:      "Income vs Tenure colored by Attrition",
			XField:     schema.YearsAtCompany,
			YField:     schema.MonthlyIncome,
			ColorField: schema.Attrition,
		},
	}
}

// FindChart returns the dashboard chart with the given id.
func FindChart(id string) (ChartSpec, bool) {
	for _, c := range DashboardCharts() {
		if c.ID == id {
			return c, true
		}
	}
	return ChartSpec{}, false
}

// ValidateChart checks that every column the chart reads is in the view.
func ValidateChart(spec ChartSpec, view RecordView) error {
	for _, field := range spec.Fields() {
		col := sourceColumn(field)
		if !HasColumn(view, col) {
			return &SchemaError{Chart: spec.ID, Column: col}
		}
	}
	if spec.Kind == KindScatter {
		for _, field := range []string{spec.XField, spec.YField} {
			if !HasMeasure(view, field) {
				return &SchemaError{Chart: spec.ID, Column: field}
			}
		}
	}
	return nil
}

// BuildCharts validates and materialises every chart; the first error aborts.
func BuildCharts(specs []ChartSpec, view RecordView) ([]*ChartConfig, error) {
	configs := make([]*ChartConfig, 0, len(specs))
	for _, spec := range specs {
		cfg, err := BuildChartData(spec, view)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// BuildChartData validates a chart against the view and computes its series.
func BuildChartData(spec ChartSpec, view RecordView) (*ChartConfig, error) {
	if err := ValidateChart(spec, view); err != nil {
		return nil, err
	}

	config := &ChartConfig{
		Spec:       spec,
		XAxis:      spec.Label(spec.XField),
		ShowLegend: spec.ColorField != "",
		ShowGrid:   true,
	}

	switch spec.Kind {
	case KindHistogram:
		config.YAxis = LabelForAggregation("count")
		if HasMeasure(view, spec.XField) {
			config.Series = buildBinnedSeries(spec, view)
		} else {
			config.Series = buildCategorySeries(spec, view)
		}
	case KindBar:
		config.YAxis = spec.Label(spec.YField)
		series, err := buildRateSeries(spec, view)
		if err != nil {
			return nil, err
		}
		config.Series = series
	case KindScatter:
		config.YAxis = spec.Label(spec.YField)
		config.Series = buildScatterSeries(spec, view)
	default:
		return nil, fmt.Errorf("chart %s: unsupported kind %q", spec.ID, spec.Kind)
	}

	config.Colors = assignColors(len(config.Series))
	for i := range config.Series {
		config.Series[i].Color = config.Colors[i]
	}
	return config, nil
}

// sourceColumn maps derived chart fields onto the column they come from.
func sourceColumn(field string) string {
	if field == schema.AttritionRate {
		return schema.AttritionFlag
	}
	return field
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

// colorGroups splits the view by the color field, or returns one unnamed group.
func colorGroups(spec ChartSpec, view RecordView) []Group {
	if spec.ColorField == "" {
		return []Group{{Key: spec.Title, Label: spec.Title, Count: view.Len(), View: view}}
	}
	return GroupBy(view, spec.ColorField)
}

// buildCategorySeries counts records per category, one series per color
// value. Every series carries every category, zero-filled.
func buildCategorySeries(spec ChartSpec, view RecordView) []ChartSeries {
	categories := UniqueValues(view, spec.XField)
	if spec.ColorField == "" {
		groups := GroupAndAggregate(view, []string{spec.XField}, "", "count", "", 0)
		return []ChartSeries{{Name: spec.Title, Data: categoryPoints(categories, groups)}}
	}

	colors := GroupAndAggregate(view, []string{spec.ColorField, spec.XField}, "", "count", "", 0)
	series := make([]ChartSeries, 0, len(colors))
	for _, cg := range colors {
		series = append(series, ChartSeries{Name: cg.Label, Data: categoryPoints(categories, cg.SubGroups)})
	}
	return series
}

func categoryPoints(categories []string, groups []Group) []ChartPoint {
	counts := make(map[string]float64, len(groups))
	for _, g := range groups {
		counts[g.Key] = g.Value
	}
	points := make([]ChartPoint, 0, len(categories))
	for i, cat := range categories {
		points = append(points, ChartPoint{Label: cat, X: float64(i), Value: counts[cat]})
	}
	return points
}

func buildBinnedSeries(spec ChartSpec, view RecordView) []ChartSeries {
	bins := Bins(MinMeasure(view, spec.XField), MaxMeasure(view, spec.XField), spec.Bins)

	series := make([]ChartSeries, 0, 2)
	for _, cg := range colorGroups(spec, view) {
		counts := make([]int, len(bins))
		for i := 0; i < cg.View.Len(); i++ {
			if idx := BinIndex(bins, cg.View.Measure(i, spec.XField)); idx >= 0 {
				counts[idx]++
			}
		}
		points := make([]ChartPoint, len(bins))
		for i, b := range bins {
			points[i] = ChartPoint{
				Label: fmt.Sprintf("%g-%g", RoundTo2(b.Lo), RoundTo2(b.Hi)),
				X:     b.Lo,
				Value: float64(counts[i]),
			}
		}
		series = append(series, ChartSeries{Name: cg.Label, Data: points})
	}
	return series
}

func buildRateSeries(spec ChartSpec, view RecordView) ([]ChartSeries, error) {
	if view.Len() == 0 {
		return []ChartSeries{{Name: spec.Label(spec.YField), Data: []ChartPoint{}}}, nil
	}
	table, err := AttritionRateByJobRole(view, spec.SortBy)
	if err != nil {
		return nil, err
	}
	points := make([]ChartPoint, 0, len(table.Rows))
	for i, r := range table.Rows {
		points = append(points, ChartPoint{Label: r.JobRole, X: float64(i), Value: RoundTo2(r.Rate)})
	}
	return []ChartSeries{{Name: spec.Label(spec.YField), Data: points}}, nil
}

func buildScatterSeries(spec ChartSpec, view RecordView) []ChartSeries {
	series := make([]ChartSeries, 0, 2)
	for _, cg := range colorGroups(spec, view) {
		points := make([]ChartPoint, 0, cg.View.Len())
		for i := 0; i < cg.View.Len(); i++ {
			x := cg.View.Measure(i, spec.XField)
			y := cg.View.Measure(i, spec.YField)
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			points = append(points, ChartPoint{X: x, Value: y})
		}
		series = append(series, ChartSeries{Name: cg.Label, Data: points})
	}
	return series
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
