package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/render"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		format  string
		outFile string
		chartID string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the dashboard report and print it",
		Long: `Build the dashboard report from the CSV and print it.

Formats:
  json      Full JSON report (default)
  pretty    Pretty-printed JSON
  yaml      YAML report
  text      Human-readable summary
  csv       KPIs and the job-role table as CSV (ready for Sheets/Excel)

With --chart only that chart is written: json/pretty/yaml give its spec and
series, csv its data, png the rendered image.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.generator(nil)
			if err != nil {
				return err
			}
			rep, err := gen.Generate(a.cfg.Dataset.Path)
			if err != nil {
				return err
			}

			w, done, err := output(cmd, outFile)
			if err != nil {
				return err
			}
			defer done()

			if chartID == "" {
				renderer, err := render.New(format)
				if err != nil {
					return err
				}
				return renderer.Render(w, rep)
			}

			cfg, ok := rep.Chart(chartID)
			if !ok {
				return fmt.Errorf("unknown chart %q (want one of %s)", chartID, chartIDs())
			}
			return writeChart(w, cfg, format, render.Size{Width: a.cfg.Render.Width, Height: a.cfg.Render.Height})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, pretty, yaml, text, csv (png with --chart)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&chartID, "chart", "", "Write a single chart by id")
	return cmd
}

func writeChart(w io.Writer, cfg *engine.ChartConfig, format string, size render.Size) error {
	switch format {
	case "json":
		return render.JSON{}.Encode(w, cfg)
	case "pretty":
		return render.JSON{Indent: true}.Encode(w, cfg)
	case "yaml", "yml":
		return render.YAML{}.Encode(w, cfg)
	case "csv":
		return render.ChartCSV(w, cfg)
	case "png":
		return render.ChartPNG(w, cfg, size)
	default:
		return fmt.Errorf("format %q is not available for a single chart", format)
	}
}

// output returns stdout, or the named file and a func that closes it.
func output(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func chartIDs() string {
	var ids string
	for i, c := range engine.DashboardCharts() {
		if i > 0 {
			ids += ", "
		}
		ids += c.ID
	}
	return ids
}
