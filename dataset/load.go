package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/helpers"
	"github.com/spektr-org/hrpulse/schema"
)

// DefaultPath is the file name of the public IBM HR attrition export.
const DefaultPath = "WA_Fn-UseC_-HR-Employee-Attrition.csv"

// Option configures a load.
type Option func(*options)

type options struct {
	strictAttrition bool
	logger          *zap.Logger
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStrictAttrition rejects rows whose Attrition is neither "Yes" nor "No".
// By default such rows load with a missing flag.
func WithStrictAttrition(strict bool) Option {
	return func(o *options) { o.strictAttrition = strict }
}

// WithLogger sets the logger used to report load statistics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Load reads and parses the CSV at path.
func Load(path string, opts ...Option) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		reason := "cannot stat file"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "file not found"
		}
		return nil, &engine.LoadError{Path: path, Reason: reason, Err: err}
	}
	if info.IsDir() {
		return nil, &engine.LoadError{Path: path, Reason: "path is a directory"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &engine.LoadError{Path: path, Reason: "cannot read file", Err: err}
	}

	ds, err := Parse(data, path, opts...)
	if err != nil {
		return nil, err
	}
	ds.ModTime = info.ModTime()
	ds.Size = info.Size()
	return ds, nil
}

// Parse builds a dataset from CSV bytes. source names the input in errors.
func Parse(data []byte, source string, opts ...Option) (*Dataset, error) {
	o := newOptions(opts)
	sch := schema.HR()

	table, err := helpers.ReadTable(data)
	if err != nil {
		return nil, &engine.LoadError{Path: source, Reason: "malformed csv", Err: err}
	}
	if missing := sch.MissingRequired(table.Headers); len(missing) > 0 {
		return nil, &engine.LoadError{
			Path:   source,
			Reason: "missing required column " + strings.Join(missing, ", "),
		}
	}

	ds := &Dataset{
		Source:    source,
		Size:      int64(len(data)),
		Encoding:  table.Encoding,
		Columns:   sch.Known(table.Headers),
		Employees: make([]Employee, table.Rows),
	}

	leavers := 0
	for i := 0; i < table.Rows; i++ {
		emp, err := parseRow(table, i, ds, sch, o)
		if err != nil {
			return nil, err
		}
		if !emp.FlagKnown() {
			ds.UnknownAttrition++
		}
		if emp.Left() {
			leavers++
		}
		ds.Employees[i] = emp
	}
	ds.bind()

	fields := []zap.Field{
		zap.String("source", source),
		zap.Int("rows", ds.Len()),
		zap.Int("leavers", leavers),
		zap.Strings("columns", ds.Columns),
		zap.String("encoding", ds.Encoding),
	}
	if ds.UnknownAttrition > 0 {
		o.logger.Warn("Rows with unrecognised Attrition value have no attrition flag",
			append(fields, zap.Int("unknown_attrition", ds.UnknownAttrition))...)
	} else {
		o.logger.Debug("Dataset parsed", fields...)
	}
	return ds, nil
}

func parseRow(table *helpers.Table, i int, ds *Dataset, sch schema.Config, o options) (Employee, error) {
	// Data row i is line i+2 of the file.
	line := i + 2
	// Category values are kept verbatim: " Yes" is not "Yes" and " Sales"
	// is its own department.
	emp := Employee{
		Department: table.Raw(schema.Department, i),
		Attrition:  table.Raw(schema.Attrition, i),
		JobRole:    table.Raw(schema.JobRole, i),
	}

	switch emp.Attrition {
	case schema.AttritionYes:
		emp.AttritionFlag = 1
	case schema.AttritionNo:
		emp.AttritionFlag = 0
	default:
		if o.strictAttrition {
			return Employee{}, &engine.LoadError{
				Path:   ds.Source,
				Reason: fmt.Sprintf("line %d: Attrition %q is not Yes or No", line, emp.Attrition),
			}
		}
		emp.AttritionFlag = math.NaN()
	}

	targets := []struct {
		key string
		dst *float64
	}{
		{schema.Age, &emp.Age},
		{schema.YearsAtCompany, &emp.YearsAtCompany},
		{schema.MonthlyIncome, &emp.MonthlyIncome},
		{schema.JobSatisfaction, &emp.JobSatisfaction},
		{schema.EnvironmentSatisfaction, &emp.EnvironmentSatisfaction},
	}
	for _, t := range targets {
		v, err := parseMeasure(table, t.key, i, sch)
		if err != nil {
			return Employee{}, &engine.LoadError{
				Path:   ds.Source,
				Reason: fmt.Sprintf("line %d: column %s", line, t.key),
				Err:    err,
			}
		}
		*t.dst = v
	}
	return emp, nil
}

// parseMeasure converts one numeric cell. Absent columns and empty cells are
// NaN; anything else must parse and sit within the schema's bounds.
func parseMeasure(table *helpers.Table, key string, i int, sch schema.Config) (float64, error) {
	if !table.Has(key) {
		return math.NaN(), nil
	}
	raw := table.Cell(key, i)
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", raw)
	}

	meta, ok := sch.Measure(key)
	if !ok {
		return v, nil
	}
	if meta.Min != nil && v < float64(*meta.Min) {
		return 0, fmt.Errorf("%v is below minimum %d", v, *meta.Min)
	}
	if meta.Max != nil && v > float64(*meta.Max) {
		return 0, fmt.Errorf("%v is above maximum %d", v, *meta.Max)
	}
	return v, nil
}
