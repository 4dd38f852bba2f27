package hrf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pivolan/go_utils"
	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/xuri/excelize/v2"
)

var (
	tabExtensions   = []string{".tsv", ".tab"}
	excelExtensions = []string{".xlsx", ".xlsm"}
)

// LoadOptions tunes how a table file is read.
type LoadOptions struct {
	Delimiter rune   // 0 picks by extension: tab for .tsv/.tab, comma otherwise
	Sheet     string // workbook sheet; empty picks the first sheet with rows
}

// DefaultLoadOptions returns options that pick everything from the file name.
func DefaultLoadOptions() *LoadOptions {
	return &LoadOptions{}
}

// LoadTable reads a delimited table (or xlsx workbook) with a header row.
// A path that does not exist yields ErrFileNotFound before anything is read.
func LoadTable(path string, opts *LoadOptions) (*models.Table, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	rc, name, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := LoadTableFromReader(rc, name, opts)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	table.Source = path
	return table, nil
}

// LoadTableFromReader parses r; name only selects the format and labels errors.
func LoadTableFromReader(r io.Reader, name string, opts *LoadOptions) (*models.Table, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}
	ext := strings.ToLower(filepath.Ext(name))
	if go_utils.InArray(ext, excelExtensions) {
		return loadWorkbook(r, name, opts.Sheet)
	}

	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
		if go_utils.InArray(ext, tabExtensions) {
			delimiter = '\t'
		}
	}
	return loadDelimited(r, name, delimiter)
}

func loadDelimited(r io.Reader, name string, delimiter rune) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: name, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, csvParseError(name, err)
	}
	if headerLooksLikeData(header) {
		return nil, &ParseError{Path: name, Row: 1, Err: errors.New("first row looks like data, header row missing")}
	}

	table := &models.Table{Source: name, Columns: normalizeHeaders(header)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvParseError(name, err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

func csvParseError(name string, err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &ParseError{Path: name, Row: csvErr.Line, Err: csvErr.Err}
	}
	return &ParseError{Path: name, Err: err}
}

func loadWorkbook(r io.Reader, name, sheet string) (*models.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Path: name, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	var rows [][]string
	if sheet != "" {
		rows, err = f.GetRows(sheet)
		if err != nil {
			return nil, &ParseError{Path: name, Err: fmt.Errorf("sheet %q: %w", sheet, err)}
		}
	} else {
		for _, candidate := range f.GetSheetList() {
			rows, err = f.GetRows(candidate)
			if err != nil {
				return nil, &ParseError{Path: name, Err: fmt.Errorf("sheet %q: %w", candidate, err)}
			}
			if len(rows) > 0 {
				break
			}
		}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Path: name, Err: errors.New("no header row")}
	}
	if headerLooksLikeData(rows[0]) {
		return nil, &ParseError{Path: name, Row: 1, Err: errors.New("first row looks like data, header row missing")}
	}

	table := &models.Table{Source: name, Columns: normalizeHeaders(rows[0])}
	width := len(table.Columns)
	for i, row := range rows[1:] {
		if len(row) > width {
			return nil, &ParseError{Path: name, Row: i + 2, Err: csv.ErrFieldCount}
		}
		// excelize drops trailing empty cells
		padded := make([]string, width)
		copy(padded, row)
		table.Rows = append(table.Rows, padded)
	}
	return table, nil
}
