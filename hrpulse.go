// Package hrpulse builds the employee attrition and HR insights dashboard
// from an HR CSV export.
//
// Usage:
//
//	import "github.com/spektr-org/hrpulse"
//
//	rep, err := hrpulse.Generate("WA_Fn-UseC_-HR-Employee-Attrition.csv")
//	if err != nil {
//	    // *engine.LoadError, *engine.SchemaError or *engine.EmptyDatasetError
//	}
//	render.JSON{Indent: true}.Render(os.Stdout, rep)
//
// The report is declarative: KPI values, the job-role table and five chart
// specs with their series. Rendering lives in the render package and the
// HTTP host in the server package. All computation is local.
package hrpulse

import (
	"github.com/spektr-org/hrpulse/dataset"
	"github.com/spektr-org/hrpulse/report"
)

// Generate loads the CSV at path and builds its report with the default
// presentation. Nothing is cached; use report.Generator for repeated calls.
func Generate(path string, opts ...dataset.Option) (*report.Report, error) {
	ds, err := dataset.Load(path, opts...)
	if err != nil {
		return nil, err
	}
	return report.Build(ds, report.DefaultOptions())
}
