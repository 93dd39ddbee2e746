package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/hrpulse/report"
)

// JSON writes the report as JSON, optionally indented.
type JSON struct {
	Indent bool
}

func (j JSON) ContentType() string { return "application/json" }

func (j JSON) Render(w io.Writer, rep *report.Report) error {
	return j.Encode(w, rep)
}

// Encode writes any value the same way Render writes a report.
func (j JSON) Encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// YAML writes the report as YAML.
type YAML struct{}

func (YAML) ContentType() string { return "application/yaml" }

func (y YAML) Render(w io.Writer, rep *report.Report) error {
	return y.Encode(w, rep)
}

// Encode writes any value as YAML with two-space indentation.
func (YAML) Encode(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
