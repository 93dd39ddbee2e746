// Package render turns a report into bytes: JSON, YAML, a terminal summary,
// CSV for spreadsheets and PNG chart images.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/hrpulse/report"
)

// Renderer writes a whole report in one format.
type Renderer interface {
	Render(w io.Writer, rep *report.Report) error
	ContentType() string
}

// Formats lists the names accepted by New.
var Formats = []string{"json", "pretty", "yaml", "text", "csv"}

// New returns the renderer for a format name.
func New(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "json":
		return JSON{}, nil
	case "pretty":
		return JSON{Indent: true}, nil
	case "yaml", "yml":
		return YAML{}, nil
	case "text":
		return Text{}, nil
	case "csv":
		return CSV{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// fmtNum prints whole numbers without decimals and fractions with two.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
