package models

// Table is one loaded file: ordered header names and raw cells per row.
type Table struct {
	Source  string
	Columns []string
	Rows    [][]string
}

func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns -1 when the column is absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Matrix holds rows x channels values for one channel group.
type Matrix struct {
	Columns []string
	Values  [][]float64 // Values[row][channel]
}

func NewMatrix(columns []string, rows int) Matrix {
	values := make([][]float64, rows)
	for i := range values {
		values[i] = make([]float64, len(columns))
	}
	return Matrix{Columns: columns, Values: values}
}

func (m Matrix) Rows() int {
	return len(m.Values)
}

func (m Matrix) Width() int {
	return len(m.Columns)
}

// Column copies channel j across all rows.
func (m Matrix) Column(j int) []float64 {
	out := make([]float64, m.Rows())
	for i, row := range m.Values {
		out[i] = row[j]
	}
	return out
}

// TracePair is the channel-averaged mean and spread series of one table.
type TracePair struct {
	Mean   []float64
	Spread []float64
}

func (p TracePair) Len() int {
	return len(p.Mean)
}

type AxisRange struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Job is one pipeline record: what to load and how to present it.
type Job struct {
	Input  string     `mapstructure:"input"`
	Title  string     `mapstructure:"title"`
	Output string     `mapstructure:"output"`
	YRange *AxisRange `mapstructure:"y_range"`
}

// TraceSummary describes the shape of a channel-averaged response.
type TraceSummary struct {
	Rows         int
	Peak         float64
	TimeToPeak   float64
	Trough       float64
	TimeToTrough float64
	Average      float64
	MeanSpread   float64
}
