package hrf

import (
	"fmt"
	"math"
	"strings"

	"github.com/pivolan/hrf_analyzer/domain/models"
)

// SpreadMethod picks how per-channel spread columns combine into one band.
type SpreadMethod string

const (
	// SpreadMean averages the per-channel spreads. Matches the MATLAB export workflow.
	SpreadMean SpreadMethod = "mean"
	// SpreadPooled is sqrt(mean(sd^2)); assumes equal trial counts per channel.
	SpreadPooled SpreadMethod = "pooled"
	// SpreadSEM is the standard error of the channel means; ignores the spread columns.
	SpreadSEM SpreadMethod = "sem"
)

func ParseSpreadMethod(s string) (SpreadMethod, error) {
	switch m := SpreadMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SpreadMean, nil
	case SpreadMean, SpreadPooled, SpreadSEM:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSpreadMethod, s)
}

// MeanAcrossChannels averages each row. NaN in any channel makes the row NaN.
func MeanAcrossChannels(m models.Matrix) []float64 {
	out := make([]float64, m.Rows())
	width := float64(m.Width())
	for i, row := range m.Values {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		out[i] = sum / width
	}
	return out
}

// Reduce validates both groups and collapses them to one trace pair.
func Reduce(mean, spread models.Matrix, method SpreadMethod) (models.TracePair, error) {
	if err := ValidateGroups(mean, spread); err != nil {
		return models.TracePair{}, err
	}

	pair := models.TracePair{Mean: MeanAcrossChannels(mean)}
	switch method {
	case SpreadMean, "":
		pair.Spread = MeanAcrossChannels(spread)
	case SpreadPooled:
		pair.Spread = pooledAcrossChannels(spread)
	case SpreadSEM:
		if mean.Width() < 2 {
			return models.TracePair{}, fmt.Errorf("%w: sem needs 2, got %d", ErrTooFewChannels, mean.Width())
		}
		pair.Spread = semAcrossChannels(mean, pair.Mean)
	default:
		return models.TracePair{}, fmt.Errorf("%w: %q", ErrUnknownSpreadMethod, method)
	}
	return pair, nil
}

func pooledAcrossChannels(spread models.Matrix) []float64 {
	out := make([]float64, spread.Rows())
	width := float64(spread.Width())
	for i, row := range spread.Values {
		sum := 0.0
		for _, sd := range row {
			sum += sd * sd
		}
		out[i] = math.Sqrt(sum / width)
	}
	return out
}

// semAcrossChannels uses the sample (n-1) standard deviation of the channel means.
func semAcrossChannels(mean models.Matrix, rowMeans []float64) []float64 {
	out := make([]float64, mean.Rows())
	k := float64(mean.Width())
	for i, row := range mean.Values {
		ss := 0.0
		for _, v := range row {
			d := v - rowMeans[i]
			ss += d * d
		}
		out[i] = math.Sqrt(ss/(k-1)) / math.Sqrt(k)
	}
	return out
}
