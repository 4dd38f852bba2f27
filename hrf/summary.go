package hrf

import (
	"math"

	"github.com/pivolan/hrf_analyzer/domain/models"
)

// Summarize finds the peak and trough of the mean trace and their latencies.
// NaN samples are skipped; an all-NaN trace reports NaN everywhere.
func Summarize(axis []float64, pair models.TracePair) models.TraceSummary {
	s := models.TraceSummary{
		Rows:         pair.Len(),
		Peak:         math.NaN(),
		TimeToPeak:   math.NaN(),
		Trough:       math.NaN(),
		TimeToTrough: math.NaN(),
		Average:      nanMean(pair.Mean),
		MeanSpread:   nanMean(pair.Spread),
	}

	for i, v := range pair.Mean {
		if math.IsNaN(v) {
			continue
		}
		t := math.NaN()
		if i < len(axis) {
			t = axis[i]
		}
		if math.IsNaN(s.Peak) || v > s.Peak {
			s.Peak, s.TimeToPeak = v, t
		}
		if math.IsNaN(s.Trough) || v < s.Trough {
			s.Trough, s.TimeToTrough = v, t
		}
	}
	return s
}

func nanMean(values []float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
