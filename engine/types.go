package engine

// ============================================================================
// ENGINE TYPES — HR Report Computation
// ============================================================================
// The engine reads data only through RecordView. It produces render-ready,
// declarative output: KPI values, a job-role table, chart specs and the
// series data each chart needs. Rendering lives elsewhere.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
// Used by tests and ad-hoc callers through NewSliceView.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// ============================================================================
// KPI TYPES
// ============================================================================

// KPISet holds the three headline metrics of the dashboard.
type KPISet struct {
	AttritionRate float64 `json:"attritionRate" yaml:"attritionRate"` // percentage
	AverageTenure float64 `json:"averageTenure" yaml:"averageTenure"` // years
	AverageIncome float64 `json:"averageIncome" yaml:"averageIncome"` // currency units per month

	Metrics []Metric `json:"metrics" yaml:"metrics"`
}

// Metric is one display-ready KPI card.
type Metric struct {
	Key   string  `json:"key" yaml:"key"`
	Label string  `json:"label" yaml:"label"`
	Value string  `json:"value" yaml:"value"`
	Raw   float64 `json:"raw" yaml:"raw"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group represents a grouped/aggregated result.
type Group struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Value     float64    `json:"value"`
	Count     int        `json:"count"`
	SubGroups []Group    `json:"subGroups,omitempty"`
	View      RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// ============================================================================
// JOB ROLE TABLE
// ============================================================================

// JobRoleAttritionTable maps each JobRole to its attrition rate.
// Rows follow first-seen JobRole order unless re-sorted with SortRows.
type JobRoleAttritionTable struct {
	Rows []JobRoleRate `json:"rows" yaml:"rows"`
}

// JobRoleRate is one row of the job-role table.
type JobRoleRate struct {
	JobRole string  `json:"jobRole" yaml:"jobRole"`
	Rate    float64 `json:"rate" yaml:"rate"`       // percentage; 0 when !Defined
	Count   int     `json:"count" yaml:"count"`     // records in the partition
	Flagged int     `json:"flagged" yaml:"flagged"` // records with a known flag
	Leavers int     `json:"leavers" yaml:"leavers"`
	Defined bool    `json:"defined" yaml:"defined"`
}

// TotalCount sums the per-role record counts.
func (t JobRoleAttritionTable) TotalCount() int {
	n := 0
	for _, r := range t.Rows {
		n += r.Count
	}
	return n
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartKind names the visual form of a chart.
type ChartKind string

const (
	KindHistogram ChartKind = "histogram"
	KindBar       ChartKind = "bar"
	KindScatter   ChartKind = "scatter"
)

// ChartSpec is a declarative chart description. It carries no data.
type ChartSpec struct {
	ID         string            `json:"id" yaml:"id"`
	Kind       ChartKind         `json:"kind" yaml:"kind"`
	Title      string            `json:"title" yaml:"title"`
	XField     string            `json:"xField" yaml:"xField"`
	YField     string            `json:"yField,omitempty" yaml:"yField,omitempty"`
	ColorField string            `json:"colorField,omitempty" yaml:"colorField,omitempty"`
	Bins       int               `json:"bins,omitempty" yaml:"bins,omitempty"`
	BarMode    string            `json:"barMode,omitempty" yaml:"barMode,omitempty"` // "group"
	SortBy     string            `json:"sortBy,omitempty" yaml:"sortBy,omitempty"`   // category order of bar charts
	Labels     map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Fields returns every column the chart reads, in x, y, color order.
func (s ChartSpec) Fields() []string {
	fields := []string{s.XField}
	if s.YField != "" {
		fields = append(fields, s.YField)
	}
	if s.ColorField != "" {
		fields = append(fields, s.ColorField)
	}
	return fields
}

// Label returns the axis label for a field, honoring overrides.
func (s ChartSpec) Label(field string) string {
	if l, ok := s.Labels[field]; ok {
		return l
	}
	return field
}

// ChartConfig is a chart spec with its series materialised for rendering.
type ChartConfig struct {
	Spec       ChartSpec     `json:"spec" yaml:"spec"`
	XAxis      string        `json:"xAxis,omitempty" yaml:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series" yaml:"series"`
	Colors     []string      `json:"colors,omitempty" yaml:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend" yaml:"showLegend"`
	ShowGrid   bool          `json:"showGrid" yaml:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name" yaml:"name"`
	Data  []ChartPoint `json:"data" yaml:"data"`
	Color string       `json:"color,omitempty" yaml:"color,omitempty"`
}

// ChartPoint represents a single data point.
// Categorical charts use Label; numeric axes use X. Value is the y value.
type ChartPoint struct {
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
	X     float64 `json:"x" yaml:"x"`
	Value float64 `json:"value" yaml:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []Column   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
	Summary *Summary   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`   // "text", "number", "percent"
	Align string `json:"align" yaml:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label" yaml:"label"`
	Values map[string]string `json:"values" yaml:"values"`
}
