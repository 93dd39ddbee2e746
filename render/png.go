package render

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/report"
)

// ============================================================================
// PNG — Chart images via go-chart
// ============================================================================
// Categorical charts become bar charts; grouped series sit side by side per
// category. Binned histograms draw one outline per series. Scatter charts
// draw points only, so overlapping points overdraw.
// ============================================================================

// Size is an image size in pixels.
type Size struct {
	Width  int
	Height int
}

// DefaultSize is the image size used when none is configured.
var DefaultSize = Size{Width: 1024, Height: 512}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    3,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// ChartPNG renders one chart as a PNG image.
func ChartPNG(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}

	var buf bytes.Buffer
	var err error
	switch {
	case cfg.Spec.Kind == engine.KindScatter:
		err = renderContinuous(&buf, cfg, size, pointStyle)
	case isBinned(cfg):
		err = renderContinuous(&buf, cfg, size, lineStyle)
	default:
		err = renderBars(&buf, cfg, size)
	}
	if err != nil {
		return fmt.Errorf("render chart %s: %w", cfg.Spec.ID, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// WriteChartPNGs writes every chart of the report to dir as <id>.png and
// returns the paths written.
func WriteChartPNGs(dir string, rep *report.Report, size Size) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(rep.Charts))
	for _, cfg := range rep.Charts {
		var buf bytes.Buffer
		if err := ChartPNG(&buf, cfg, size); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, cfg.Spec.ID+".png")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// isBinned reports a histogram over a numeric column: its points carry
// increasing bin starts rather than category positions.
func isBinned(cfg *engine.ChartConfig) bool {
	return cfg.Spec.Kind == engine.KindHistogram && cfg.Spec.Bins > 0
}

// ============================================================================
// BAR CHARTS
// ============================================================================

func renderBars(w io.Writer, cfg *engine.ChartConfig, size Size) error {
	var bars []chart.Value
	maxValue := 0.0
	multi := len(cfg.Series) > 1

	if len(cfg.Series) > 0 {
		for i, point := range cfg.Series[0].Data {
			for _, s := range cfg.Series {
				if i >= len(s.Data) {
					continue
				}
				label := point.Label
				if multi {
					label = point.Label + " / " + s.Name
				}
				col := hexColor(s.Color)
				bars = append(bars, chart.Value{
					Label: label,
					Value: s.Data[i].Value,
					Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
				})
				maxValue = math.Max(maxValue, s.Data[i].Value)
			}
		}
	}
	if len(bars) == 0 {
		return fmt.Errorf("no data to plot")
	}

	barWidth := (size.Width - 120) / len(bars)
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 4 {
		barWidth = 4
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	bc := chart.BarChart{
		Title:      cfg.Spec.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		YAxis: chart.YAxis{
			Name:  cfg.YAxis,
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue * 1.1},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, w)
}

// ============================================================================
// CONTINUOUS CHARTS
// ============================================================================

func renderContinuous(w io.Writer, cfg *engine.ChartConfig, size Size, style func(drawing.Color) chart.Style) error {
	var series []chart.Series
	xr := newBounds()
	yr := newBounds()

	for _, s := range cfg.Series {
		if len(s.Data) == 0 {
			continue
		}
		xs := make([]float64, len(s.Data))
		ys := make([]float64, len(s.Data))
		for i, p := range s.Data {
			xs[i], ys[i] = p.X, p.Value
			xr.add(p.X)
			yr.add(p.Value)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   style(hexColor(s.Color)),
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	ch := chart.Chart{
		Title:      cfg.Spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: cfg.XAxis, Range: xr.padded()},
		YAxis:      chart.YAxis{Name: cfg.YAxis, Range: yr.padded()},
		Series:     series,
	}
	if cfg.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

type bounds struct {
	lo, hi float64
}

func newBounds() *bounds {
	return &bounds{lo: math.Inf(1), hi: math.Inf(-1)}
}

func (b *bounds) add(v float64) {
	b.lo = math.Min(b.lo, v)
	b.hi = math.Max(b.hi, v)
}

// padded widens the range by 5% each side; a single value gets ±1.
func (b *bounds) padded() *chart.ContinuousRange {
	if b.hi <= b.lo {
		return &chart.ContinuousRange{Min: b.lo - 1, Max: b.lo + 1}
	}
	pad := (b.hi - b.lo) * 0.05
	return &chart.ContinuousRange{Min: b.lo - pad, Max: b.hi + pad}
}
