package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/config"
	"github.com/spektr-org/hrpulse/dataset"
	"github.com/spektr-org/hrpulse/logging"
	"github.com/spektr-org/hrpulse/metrics"
	"github.com/spektr-org/hrpulse/report"
)

// Version is the current version of hrpulse.
var Version = "0.3.0"

// app carries what every subcommand needs once the root pre-run has loaded
// configuration.
type app struct {
	configPath string
	dataPath   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// newRootCmd builds the command tree. Each call returns an independent tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "hrpulse",
		Short: "Employee attrition and HR insights dashboard",
		Long: `hrpulse reads an HR employee CSV export and builds the attrition dashboard:
three KPI cards, the attrition rate per job role and five charts.

Examples:
  hrpulse report                               # JSON report of the default CSV
  hrpulse report --data hr.csv --format text   # terminal summary
  hrpulse report --chart age_distribution --format csv
  hrpulse render --dir out/                    # five PNG charts
  hrpulse serve --port 8501                    # dashboard page and API
  hrpulse schema                               # expected columns (YAML)

Configuration is read from hrpulse.yaml (or --config) and HRPULSE_* env vars.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Flags())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Path to config file (default: ./hrpulse.yaml if present)")
	pf.StringVarP(&a.dataPath, "data", "d", "", "Path to the HR CSV (default: "+dataset.DefaultPath+")")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newReportCmd(a),
		newRenderCmd(a),
		newServeCmd(a),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}

// load reads configuration, applies flag overrides and builds the logger.
func (a *app) load(flags *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if flags.Changed("data") {
		cfg.Dataset.Path = a.dataPath
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// generator wires cache, metrics and report options from the loaded config.
// m may be nil.
func (a *app) generator(m *metrics.Metrics) (*report.Generator, error) {
	opts, err := report.OptionsFromConfig(a.cfg.Report)
	if err != nil {
		return nil, err
	}
	strict := dataset.WithStrictAttrition(a.cfg.Dataset.StrictAttrition)
	if m == nil {
		return report.NewGenerator(dataset.NewCache(nil, a.logger, strict), opts, nil, a.logger), nil
	}
	return report.NewGenerator(dataset.NewCache(m, a.logger, strict), opts, m, a.logger), nil
}

// Execute runs the CLI and exits non-zero on any error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
