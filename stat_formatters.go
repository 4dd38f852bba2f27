package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/pivolan/hrf_analyzer/hrf"
)

// GenerateJobTable summarises a run: one row per job, failures included.
func GenerateJobTable(results []JobResult) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Title", "Status", "Rows", "Mean ch", "Spread ch", "Peak", "t peak (s)", "Trough", "t trough (s)", "Output / Error"})

	for _, r := range results {
		if r.Err != nil {
			t.AppendRow(table.Row{r.Job.Title, "FAILED", "-", "-", "-", "-", "-", "-", "-", r.Err.Error()})
			continue
		}
		s := r.Result.Summary
		t.AppendRow(table.Row{
			r.Job.Title, "ok", s.Rows,
			r.Result.Mean.Width(), r.Result.Spread.Width(),
			formatValue(s.Peak), formatTime(s.TimeToPeak),
			formatValue(s.Trough), formatTime(s.TimeToTrough),
			r.Output,
		})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// GenerateDatasetTable lists which condition/species tables loaded and their channel counts.
func GenerateDatasetTable(ds hrf.Dataset, conditions, species []string, matcher hrf.ColumnMatcher) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Condition", "Species", "Rows", "Columns", "Mean ch", "Spread ch"})
	for _, c := range conditions {
		for _, s := range species {
			tbl := ds.Get(c, s)
			if tbl == nil {
				t.AppendRow(table.Row{c, s, "missing", "-", "-", "-"})
				continue
			}
			mean, spread := countGroups(tbl, matcher)
			t.AppendRow(table.Row{c, s, tbl.RowCount(), len(tbl.Columns), mean, spread})
		}
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// GeneratePreviewTable renders the first n rows of a table, like a dataframe head.
func GeneratePreviewTable(tbl *models.Table, n int) string {
	t := table.NewWriter()
	header := table.Row{"#"}
	for _, c := range tbl.Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)

	if n > tbl.RowCount() || n < 0 {
		n = tbl.RowCount()
	}
	for i, row := range tbl.Rows[:n] {
		r := table.Row{i}
		for _, cell := range row {
			r = append(r, cell)
		}
		t.AppendRow(r)
	}
	t.SetStyle(table.StyleLight)
	return fmt.Sprintf("%s (%d rows)\n%s", filepath.Base(tbl.Source), tbl.RowCount(), t.Render())
}

func countGroups(tbl *models.Table, matcher hrf.ColumnMatcher) (int, int) {
	if matcher == nil {
		matcher = hrf.DefaultMatcher
	}
	var mean, spread int
	for _, c := range tbl.Columns {
		if matcher.IsMean(c) {
			mean++
		}
		if matcher.IsSpread(c) {
			spread++
		}
	}
	return mean, spread
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'e', 3, 64)
}

func formatTime(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}
