package schema

import (
	"strings"
)

// ============================================================================
// SCHEMA — Fixed shape of the HR employee dataset
// ============================================================================
// Keys are the CSV header names of the IBM HR attrition export. The loader
// maps these columns onto typed employee fields; the engine addresses them
// through RecordView using the same keys.
// ============================================================================

// Source columns.
const (
	Department              = "Department"
	Attrition               = "Attrition"
	Age                     = "Age"
	YearsAtCompany          = "YearsAtCompany"
	MonthlyIncome           = "MonthlyIncome"
	JobRole                 = "JobRole"
	JobSatisfaction         = "JobSatisfaction"
	EnvironmentSatisfaction = "EnvironmentSatisfaction"
)

// Derived columns.
const (
	AttritionFlag = "AttritionFlag" // 1 = left, 0 = stayed
	AttritionRate = "AttritionRate" // percentage, per JobRole
)

// Attrition category values.
const (
	AttritionYes = "Yes"
	AttritionNo  = "No"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions" yaml:"dimensions"`
	Measures   []MeasureMeta   `json:"measures" yaml:"measures"`

	// Columns the loader refuses to work without.
	Required []string `json:"required" yaml:"required"`
}

// DimensionMeta describes a string field used for grouping and coloring.
type DimensionMeta struct {
	Key          string   `json:"key" yaml:"key"`
	DisplayName  string   `json:"displayName" yaml:"displayName"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	SampleValues []string `json:"sampleValues,omitempty" yaml:"sampleValues,omitempty"`
	Groupable    bool     `json:"groupable" yaml:"groupable"`
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string `json:"unit,omitempty" yaml:"unit,omitempty"` // "years", "currency", "percent", "level"
	IsInteger   bool   `json:"isInteger,omitempty" yaml:"isInteger,omitempty"`
	IsDerived   bool   `json:"isDerived,omitempty" yaml:"isDerived,omitempty"`
	Min         *int   `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *int   `json:"max,omitempty" yaml:"max,omitempty"`
}

// HR returns the schema of the employee attrition dataset.
func HR() Config {
	return Config{
		Name:        "hr_employee_attrition",
		Version:     "1",
		Description: "One row per employee with attrition status, demographics, pay and satisfaction ratings.",
		Dimensions: []DimensionMeta{
			DefaultDimension(Department, "Department", []string{"Sales", "Research & Development", "Human Resources"}),
			DefaultDimension(Attrition, "Attrition", []string{AttritionYes, AttritionNo}),
			DefaultDimension(JobRole, "Job Role", []string{"Sales Executive", "Research Scientist", "Laboratory Technician"}),
		},
		Measures: []MeasureMeta{
			{Key: Age, DisplayName: "Age", Unit: "years", IsInteger: true},
			{Key: YearsAtCompany, DisplayName: "Years at Company", Unit: "years", IsInteger: true, Min: intPtr(0)},
			{Key: MonthlyIncome, DisplayName: "Monthly Income", Unit: "currency", Min: intPtr(0)},
			{Key: JobSatisfaction, DisplayName: "Job Satisfaction", Unit: "level", IsInteger: true, Min: intPtr(1), Max: intPtr(4)},
			{Key: EnvironmentSatisfaction, DisplayName: "Environment Satisfaction", Unit: "level", IsInteger: true, Min: intPtr(1), Max: intPtr(4)},
			{Key: AttritionFlag, DisplayName: "Attrition Flag", Description: "1 if Attrition is Yes, 0 if No", IsInteger: true, IsDerived: true},
		},
		Required: []string{Attrition},
	}
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string, samples []string) DimensionMeta {
	return DimensionMeta{
		Key:          key,
		DisplayName:  displayName,
		SampleValues: samples,
		Groupable:    true,
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// IsDimension reports whether key names a dimension column.
func (c Config) IsDimension(key string) bool {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return true
		}
	}
	return false
}

// DisplayName returns the human label for a column, falling back to the key.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key {
			return d.DisplayName
		}
	}
	for _, m := range c.Measures {
		if m.Key == key {
			return m.DisplayName
		}
	}
	return key
}

// MissingRequired returns the required columns absent from headers.
// Header comparison ignores surrounding whitespace.
func (c Config) MissingRequired(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, key := range c.Required {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	return missing
}

// Known filters headers down to the columns this schema maps.
func (c Config) Known(headers []string) []string {
	var known []string
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if _, ok := c.Measure(h); ok || c.IsDimension(h) {
			known = append(known, h)
		}
	}
	return known
}

func intPtr(v int) *int { return &v }
