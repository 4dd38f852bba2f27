package hrf

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/hrf_analyzer/domain/models"
)

const (
	DefaultMeanMarker   = "ts_ch"
	DefaultSpreadMarker = "std_ch"
)

// ColumnMatcher decides which columns belong to the mean and spread groups.
type ColumnMatcher interface {
	IsMean(column string) bool
	IsSpread(column string) bool
}

// MarkerMatcher selects columns whose name contains the marker (case-sensitive).
type MarkerMatcher struct {
	Mean   string
	Spread string
}

var DefaultMatcher = MarkerMatcher{Mean: DefaultMeanMarker, Spread: DefaultSpreadMarker}

func (m MarkerMatcher) IsMean(column string) bool {
	return m.Mean != "" && strings.Contains(column, m.Mean)
}

func (m MarkerMatcher) IsSpread(column string) bool {
	return m.Spread != "" && strings.Contains(column, m.Spread)
}

// PrefixMatcher selects columns whose name starts with the prefix.
type PrefixMatcher struct {
	Mean   string
	Spread string
}

func (m PrefixMatcher) IsMean(column string) bool {
	return m.Mean != "" && strings.HasPrefix(column, m.Mean)
}

func (m PrefixMatcher) IsSpread(column string) bool {
	return m.Spread != "" && strings.HasPrefix(column, m.Spread)
}

// Split partitions the table into mean and spread matrices, in column order.
// Zero matches give a zero-width matrix; use ValidateGroups before reducing.
func Split(table *models.Table, matcher ColumnMatcher) (models.Matrix, models.Matrix, error) {
	if matcher == nil {
		matcher = DefaultMatcher
	}
	var meanIdx, spreadIdx []int
	for i, name := range table.Columns {
		if matcher.IsMean(name) {
			meanIdx = append(meanIdx, i)
		}
		if matcher.IsSpread(name) {
			spreadIdx = append(spreadIdx, i)
		}
	}

	mean, err := extract(table, meanIdx)
	if err != nil {
		return models.Matrix{}, models.Matrix{}, err
	}
	spread, err := extract(table, spreadIdx)
	if err != nil {
		return models.Matrix{}, models.Matrix{}, err
	}
	return mean, spread, nil
}

func extract(table *models.Table, idx []int) (models.Matrix, error) {
	columns := make([]string, len(idx))
	for j, i := range idx {
		columns[j] = table.Columns[i]
	}
	m := models.NewMatrix(columns, table.RowCount())
	for r, row := range table.Rows {
		for j, i := range idx {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			v, err := parseCell(cell)
			if err != nil {
				return models.Matrix{}, &ParseError{Path: table.Source, Row: r + 2, Column: columns[j], Err: err}
			}
			m.Values[r][j] = v
		}
	}
	return m, nil
}

// parseCell treats blank cells and NA tokens as missing (NaN).
func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "na", "n/a", "null":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	return v, nil
}

// ValidateGroups checks that both groups are non-empty, equally wide and equally long.
func ValidateGroups(mean, spread models.Matrix) error {
	if mean.Width() == 0 {
		return fmt.Errorf("mean group: %w", ErrEmptyGroup)
	}
	if spread.Width() == 0 {
		return fmt.Errorf("spread group: %w", ErrEmptyGroup)
	}
	if mean.Width() != spread.Width() {
		return fmt.Errorf("%w: %d mean vs %d spread", ErrWidthMismatch, mean.Width(), spread.Width())
	}
	if mean.Rows() != spread.Rows() {
		return fmt.Errorf("%w: %d mean rows vs %d spread rows", ErrLengthMismatch, mean.Rows(), spread.Rows())
	}
	return nil
}
