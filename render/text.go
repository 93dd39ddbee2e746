package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/report"
)

// Text writes a terminal summary: KPI cards, the job-role table and one line
// per chart.
type Text struct{}

func (Text) ContentType() string { return "text/plain; charset=utf-8" }

func (Text) Render(w io.Writer, rep *report.Report) error {
	ew := &errWriter{w: w}

	ew.printf("%s\n%s\n\n", rep.Title, strings.Repeat("=", len([]rune(rep.Title))))
	ew.printf("Source: %s (%d employees)\n", rep.Source, rep.Employees)
	if rep.UnknownAttrition > 0 {
		ew.printf("Rows without a Yes/No attrition value: %d\n", rep.UnknownAttrition)
	}
	ew.printf("\n")

	if rep.KPIs != nil {
		for _, m := range rep.KPIs.Metrics {
			ew.printf("  %-20s %s\n", m.Label, m.Value)
		}
		ew.printf("\n")
	}

	if rep.JobRoleTable != nil {
		writeTable(ew, rep.JobRoleTable)
		ew.printf("\n")
	}

	ew.printf("Charts\n")
	for _, c := range rep.Charts {
		ew.printf("  %-28s %-10s %s (%s)\n", c.Spec.ID, c.Spec.Kind, c.Spec.Title, seriesSummary(c))
	}
	return ew.err
}

func writeTable(ew *errWriter, t *engine.TableData) {
	ew.printf("%s\n", t.Title)
	tw := tabwriter.NewWriter(ew, 0, 0, 2, ' ', tabwriter.AlignRight)

	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = c.Label
	}
	fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if t.Summary != nil {
		row := []string{t.Summary.Label}
		for _, c := range t.Columns[1:] {
			row = append(row, t.Summary.Values[c.Key])
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil && ew.err == nil {
		ew.err = err
	}
}

func seriesSummary(c *engine.ChartConfig) string {
	parts := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		parts = append(parts, fmt.Sprintf("%s: %d points", s.Name, len(s.Data)))
	}
	return strings.Join(parts, ", ")
}

// errWriter keeps the first write error so callers check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}
