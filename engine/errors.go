package engine

import (
	"errors"
	"fmt"
)

// ============================================================================
// ERRORS — Report-level failure taxonomy
// ============================================================================
// Every error aborts report generation. Callers match with errors.As for the
// typed detail or errors.Is against the sentinels below.
// ============================================================================

var (
	ErrLoad         = errors.New("dataset load failed")
	ErrEmptyDataset = errors.New("dataset is empty")
	ErrSchema       = errors.New("column not in dataset")
)

// LoadError reports a dataset that could not be read, parsed or mapped.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s: %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrLoad) match any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// EmptyDatasetError reports a metric requested over zero usable records.
type EmptyDatasetError struct {
	Metric string
	Detail string
}

func (e *EmptyDatasetError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Metric, ErrEmptyDataset.Error(), e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Metric, ErrEmptyDataset.Error())
}

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }

// SchemaError reports a chart or metric that references an absent column.
type SchemaError struct {
	Chart  string // chart id or metric name
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: column %q not in dataset", e.Chart, e.Column)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
