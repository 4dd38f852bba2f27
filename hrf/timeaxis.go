package hrf

import "github.com/pivolan/hrf_analyzer/domain/models"

const (
	DefaultTimeStart = 0.0
	DefaultTimeEnd   = 20.0
)

// Linspace returns n evenly spaced values from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	// pin the last sample so rounding never drifts past end
	out[n-1] = end
	return out
}

// TimeAxis spans the fixed epoch window over one sample per trace row.
// Every file is assumed to cover the same window regardless of its sampling rate.
func TimeAxis(pair models.TracePair, start, end float64) []float64 {
	return Linspace(start, end, pair.Len())
}
