// Package dataset loads the HR employee CSV into an immutable, typed dataset
// and exposes it to the engine as a RecordView.
package dataset

import (
	"math"
	"time"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/schema"
)

// Employee is one row of the HR export. Numeric fields hold NaN when the
// cell was empty.
type Employee struct {
	Department              string
	Attrition               string
	AttritionFlag           float64 // 1, 0 or NaN for an unrecognised Attrition value
	Age                     float64
	YearsAtCompany          float64
	MonthlyIncome           float64
	JobRole                 string
	JobSatisfaction         float64
	EnvironmentSatisfaction float64
}

// Left reports whether the employee is a known leaver.
func (e Employee) Left() bool { return e.AttritionFlag == 1 }

// FlagKnown reports whether Attrition held "Yes" or "No".
func (e Employee) FlagKnown() bool { return !math.IsNaN(e.AttritionFlag) }

// Dataset is the loaded employee table. It is never mutated after load.
type Dataset struct {
	Source   string
	ModTime  time.Time
	Size     int64
	Encoding string

	// Columns lists the schema columns present in the file, in file order.
	Columns   []string
	Employees []Employee

	// UnknownAttrition counts rows whose Attrition was neither Yes nor No.
	UnknownAttrition int

	view engine.RecordView
}

// Len returns the number of employees.
func (d *Dataset) Len() int { return len(d.Employees) }

// Has reports whether the file carried the named column.
func (d *Dataset) Has(column string) bool {
	for _, c := range d.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// View returns the dataset as a RecordView. Only columns present in the file
// are registered, so charts over absent columns fail with SchemaError.
func (d *Dataset) View() engine.RecordView {
	return d.view
}

// bind is called once by the loader, before the dataset is shared.
func (d *Dataset) bind() {
	d.view = d.adapter().Bind(d.Employees)
}

func (d *Dataset) adapter() *engine.DomainAdapter[Employee] {
	a := engine.NewDomainAdapter[Employee]()
	for _, col := range d.Columns {
		switch col {
		case schema.Department:
			a.Dimension(col, func(e Employee) string { return e.Department })
		case schema.Attrition:
			a.Dimension(col, func(e Employee) string { return e.Attrition })
			a.Measure(schema.AttritionFlag, func(e Employee) float64 { return e.AttritionFlag })
		case schema.JobRole:
			a.Dimension(col, func(e Employee) string { return e.JobRole })
		case schema.Age:
			a.Measure(col, func(e Employee) float64 { return e.Age })
		case schema.YearsAtCompany:
			a.Measure(col, func(e Employee) float64 { return e.YearsAtCompany })
		case schema.MonthlyIncome:
			a.Measure(col, func(e Employee) float64 { return e.MonthlyIncome })
		case schema.JobSatisfaction:
			a.Measure(col, func(e Employee) float64 { return e.JobSatisfaction })
		case schema.EnvironmentSatisfaction:
			a.Measure(col, func(e Employee) float64 { return e.EnvironmentSatisfaction })
		}
	}
	return a
}
