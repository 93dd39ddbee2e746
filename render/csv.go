package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/report"
)

// ============================================================================
// CSV OUTPUT — Sheets-ready KPIs, job-role table and chart data
// ============================================================================

// CSV writes the KPI cards and the job-role table as two blocks separated by
// an empty line.
type CSV struct{}

func (CSV) ContentType() string { return "text/csv; charset=utf-8" }

func (CSV) Render(w io.Writer, rep *report.Report) error {
	cw := csv.NewWriter(w)

	if rep.KPIs != nil {
		cw.Write([]string{"Metric", "Value"})
		for _, m := range rep.KPIs.Metrics {
			cw.Write([]string{m.Label, m.Value})
		}
	}
	if rep.JobRoleTable != nil {
		cw.Write([]string{})
		writeTableCSV(cw, rep.JobRoleTable)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ChartCSV writes one chart's series. Categorical charts get a label column
// plus one column per series; scatter charts get one row per point.
func ChartCSV(w io.Writer, cfg *engine.ChartConfig) error {
	cw := csv.NewWriter(w)
	writeChartCSV(cw, cfg)
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeChartCSV(cw *csv.Writer, cfg *engine.ChartConfig) {
	xLabel := cfg.XAxis
	yLabel := cfg.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	if cfg.Spec.Kind == engine.KindScatter {
		header := []string{xLabel, yLabel}
		if cfg.Spec.ColorField != "" {
			header = append(header, cfg.Spec.ColorField)
		}
		cw.Write(header)
		for _, s := range cfg.Series {
			for _, p := range s.Data {
				row := []string{fmtNum(p.X), fmtNum(p.Value)}
				if cfg.Spec.ColorField != "" {
					row = append(row, s.Name)
				}
				cw.Write(row)
			}
		}
		return
	}

	if len(cfg.Series) == 0 {
		cw.Write([]string{xLabel, yLabel})
		return
	}

	// Single series → two columns
	if len(cfg.Series) == 1 {
		cw.Write([]string{xLabel, yLabel})
		for _, d := range cfg.Series[0].Data {
			cw.Write([]string{d.Label, fmtNum(d.Value)})
		}
		return
	}

	// Multi-series → label + one column per series
	headers := []string{xLabel}
	for _, s := range cfg.Series {
		headers = append(headers, s.Name)
	}
	cw.Write(headers)

	for i, d := range cfg.Series[0].Data {
		row := []string{d.Label}
		for _, s := range cfg.Series {
			if i < len(s.Data) {
				row = append(row, fmtNum(s.Data[i].Value))
			} else {
				row = append(row, "")
			}
		}
		cw.Write(row)
	}
}

func writeTableCSV(cw *csv.Writer, t *engine.TableData) {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range t.Rows {
		cw.Write(row)
	}
	if t.Summary != nil {
		row := []string{t.Summary.Label}
		for _, c := range t.Columns[1:] {
			row = append(row, t.Summary.Values[c.Key])
		}
		cw.Write(row)
	}
}
