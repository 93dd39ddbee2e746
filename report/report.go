// Package report assembles the HR attrition dashboard: KPI cards, the
// job-role table and the five chart specs with their data.
package report

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/spektr-org/hrpulse/config"
	"github.com/spektr-org/hrpulse/dataset"
	"github.com/spektr-org/hrpulse/engine"
)

// Default page metadata.
const (
	DefaultTitle     = "Employee Attrition and HR Insights Dashboard"
	DefaultPageTitle = "HR Attrition Dashboard"
	DefaultLayout    = "wide"

	JobRoleTableTitle = "Attrition Rate by Job Role"
)

// Report is everything a host needs to draw the dashboard.
type Report struct {
	Title     string `json:"title" yaml:"title"`
	PageTitle string `json:"pageTitle" yaml:"pageTitle"`
	Layout    string `json:"layout" yaml:"layout"`

	Source    string `json:"source" yaml:"source"`
	Employees int    `json:"employees" yaml:"employees"`

	// UnknownAttrition counts rows left out of attrition averages.
	UnknownAttrition int `json:"unknownAttrition,omitempty" yaml:"unknownAttrition,omitempty"`

	KPIs         *engine.KPISet               `json:"kpis" yaml:"kpis"`
	JobRoles     engine.JobRoleAttritionTable `json:"jobRoles" yaml:"jobRoles"`
	JobRoleTable *engine.TableData            `json:"jobRoleTable" yaml:"jobRoleTable"`
	Charts       []*engine.ChartConfig        `json:"charts" yaml:"charts"`
}

// Chart returns the chart with the given id.
func (r *Report) Chart(id string) (*engine.ChartConfig, bool) {
	for _, c := range r.Charts {
		if c.Spec.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Options control presentation. Computation is unaffected.
type Options struct {
	Title        string
	PageTitle    string
	Layout       string
	Format       engine.FormatOptions
	JobRoleOrder string // "label_asc" (default), "value_desc", "first_seen"
}

// DefaultOptions returns the stock dashboard presentation.
func DefaultOptions() Options {
	return Options{
		Title:        DefaultTitle,
		PageTitle:    DefaultPageTitle,
		Layout:       DefaultLayout,
		Format:       engine.DefaultFormat(),
		JobRoleOrder: engine.DefaultJobRoleOrder,
	}
}

// OptionsFromConfig overlays the configured report section on the defaults.
// Empty fields keep their default.
func OptionsFromConfig(cfg config.ReportConfig) (Options, error) {
	opts := DefaultOptions()
	if cfg.Title != "" {
		opts.Title = cfg.Title
	}
	if cfg.PageTitle != "" {
		opts.PageTitle = cfg.PageTitle
	}
	if cfg.Layout != "" {
		opts.Layout = cfg.Layout
	}
	if cfg.JobRoleOrder != "" {
		opts.JobRoleOrder = cfg.JobRoleOrder
	}
	if cfg.CurrencySymbol != "" {
		opts.Format.CurrencySymbol = cfg.CurrencySymbol
	}
	if cfg.Language != "" {
		tag, err := language.Parse(cfg.Language)
		if err != nil {
			return Options{}, fmt.Errorf("report language %q: %w", cfg.Language, err)
		}
		opts.Format.Language = tag
	}
	return opts, nil
}

// Build computes a report over a loaded dataset. Any error aborts the whole
// report; nothing partial is returned.
func Build(ds *dataset.Dataset, opts Options) (*Report, error) {
	view := ds.View()

	kpis, err := engine.ComputeKPIs(view, opts.Format)
	if err != nil {
		return nil, err
	}

	roles, err := engine.AttritionRateByJobRole(view, opts.JobRoleOrder)
	if err != nil {
		return nil, err
	}

	// The job-role chart lists roles in the same order as the table.
	specs := engine.DashboardCharts()
	for i := range specs {
		if specs[i].Kind == engine.KindBar {
			specs[i].SortBy = opts.JobRoleOrder
		}
	}
	charts, err := engine.BuildCharts(specs, view)
	if err != nil {
		return nil, err
	}

	return &Report{
		Title:            opts.Title,
		PageTitle:        opts.PageTitle,
		Layout:           opts.Layout,
		Source:           ds.Source,
		Employees:        ds.Len(),
		UnknownAttrition: ds.UnknownAttrition,
		KPIs:             kpis,
		JobRoles:         roles,
		JobRoleTable:     engine.BuildJobRoleTable(JobRoleTableTitle, roles, opts.Format),
		Charts:           charts,
	}, nil
}

// Observer receives report outcomes. metrics.Metrics implements it.
type Observer interface {
	ObserveReport(duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveReport(time.Duration, error) {}

// Generator loads datasets through a cache and builds reports from them.
// Safe for concurrent use.
type Generator struct {
	cache    *dataset.Cache
	opts     Options
	observer Observer
	logger   *zap.Logger
}

// NewGenerator creates a generator. observer and logger may be nil.
func NewGenerator(cache *dataset.Cache, opts Options, observer Observer, logger *zap.Logger) *Generator {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{cache: cache, opts: opts, observer: observer, logger: logger}
}

// Generate loads path (or reuses the cached dataset) and builds its report.
func (g *Generator) Generate(path string) (*Report, error) {
	start := time.Now()

	rep, err := g.generate(path)
	g.observer.ObserveReport(time.Since(start), err)
	if err != nil {
		g.logger.Error("Report generation failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	g.logger.Debug("Report generated",
		zap.String("path", path),
		zap.Int("employees", rep.Employees),
		zap.Duration("duration", time.Since(start)))
	return rep, nil
}

func (g *Generator) generate(path string) (*Report, error) {
	ds, err := g.cache.Get(path)
	if err != nil {
		return nil, err
	}
	return Build(ds, g.opts)
}

// Options returns the presentation options the generator was built with.
func (g *Generator) Options() Options { return g.opts }
