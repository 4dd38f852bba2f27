package hrf

import (
	"github.com/pivolan/hrf_analyzer/domain/models"
)

// Options groups the knobs of one load-split-reduce run.
type Options struct {
	Load      *LoadOptions
	Matcher   ColumnMatcher
	Method    SpreadMethod
	TimeStart float64
	TimeEnd   float64
}

func DefaultOptions() Options {
	return Options{
		Load:      DefaultLoadOptions(),
		Matcher:   DefaultMatcher,
		Method:    SpreadMean,
		TimeStart: DefaultTimeStart,
		TimeEnd:   DefaultTimeEnd,
	}
}

// Result carries every intermediate of a run so callers can report shapes.
type Result struct {
	Table   *models.Table
	Mean    models.Matrix
	Spread  models.Matrix
	Pair    models.TracePair
	Axis    []float64
	Summary models.TraceSummary
}

// AnalyzeTable splits, validates and reduces an already loaded table.
func AnalyzeTable(table *models.Table, opts Options) (*Result, error) {
	mean, spread, err := Split(table, opts.Matcher)
	if err != nil {
		return nil, err
	}
	pair, err := Reduce(mean, spread, opts.Method)
	if err != nil {
		return nil, err
	}
	axis := TimeAxis(pair, opts.TimeStart, opts.TimeEnd)
	return &Result{
		Table:   table,
		Mean:    mean,
		Spread:  spread,
		Pair:    pair,
		Axis:    axis,
		Summary: Summarize(axis, pair),
	}, nil
}

// AnalyzeFile loads path and runs AnalyzeTable on it.
func AnalyzeFile(path string, opts Options) (*Result, error) {
	table, err := LoadTable(path, opts.Load)
	if err != nil {
		return nil, err
	}
	return AnalyzeTable(table, opts)
}
