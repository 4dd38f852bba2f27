package plot

import (
	"fmt"

	"github.com/pivolan/hrf_analyzer/domain/models"
)

const (
	MeanColor   = "#000000"
	FillColor   = "#A6CEE3"
	ZeroColor   = "#808080"
	FillAlpha   = 0.6
	MeanWidth   = 2.5
	ZeroWidth   = 0.8
	FontSize    = 14.0
	WidthInch   = 8.0
	HeightInch  = 5.0
	DefaultDPI  = 300.0
	XAxisLabel  = "Time (s)"
	YAxisLabel  = "Concentration Change (µM)"
	BandLabel   = "Mean ± 1 SD"
	MeanLabel   = "Mean HRF"
	zeroDashLen = 5.0
)

// Figure is everything needed to draw one HRF plot. It owns its slices.
type Figure struct {
	Title     string
	XLabel    string
	YLabel    string
	Time      []float64
	Mean      []float64
	Lower     []float64
	Upper     []float64
	YRange    *models.AxisRange
	ZeroLine  bool
	MeanLabel string
	BandLabel string
	Style     Style
}

type Style struct {
	MeanColor  string
	FillColor  string
	FillAlpha  float64
	MeanWidth  float64
	ZeroColor  string
	ZeroWidth  float64
	FontSize   float64
	WidthInch  float64
	HeightInch float64
}

func DefaultStyle() Style {
	return Style{
		MeanColor:  MeanColor,
		FillColor:  FillColor,
		FillAlpha:  FillAlpha,
		MeanWidth:  MeanWidth,
		ZeroColor:  ZeroColor,
		ZeroWidth:  ZeroWidth,
		FontSize:   FontSize,
		WidthInch:  WidthInch,
		HeightInch: HeightInch,
	}
}

// NewHRFFigure builds the mean ± spread figure. Inputs are copied, never modified.
func NewHRFFigure(time []float64, pair models.TracePair, title string, yRange *models.AxisRange) (Figure, error) {
	n := len(time)
	if len(pair.Mean) != n || len(pair.Spread) != n {
		return Figure{}, fmt.Errorf("figure %q: time has %d samples, mean %d, spread %d", title, n, len(pair.Mean), len(pair.Spread))
	}
	if yRange != nil && yRange.Min >= yRange.Max {
		return Figure{}, fmt.Errorf("figure %q: y range min %g must be below max %g", title, yRange.Min, yRange.Max)
	}

	fig := Figure{
		Title:     title,
		XLabel:    XAxisLabel,
		YLabel:    YAxisLabel,
		Time:      append([]float64(nil), time...),
		Mean:      append([]float64(nil), pair.Mean...),
		Lower:     make([]float64, n),
		Upper:     make([]float64, n),
		ZeroLine:  true,
		MeanLabel: MeanLabel,
		BandLabel: BandLabel,
		Style:     DefaultStyle(),
	}
	for i := range pair.Mean {
		fig.Lower[i] = pair.Mean[i] - pair.Spread[i]
		fig.Upper[i] = pair.Mean[i] + pair.Spread[i]
	}
	if yRange != nil {
		r := *yRange
		fig.YRange = &r
	}
	return fig, nil
}

// PixelSize is the canvas size for the given dpi.
func (f Figure) PixelSize(dpi float64) (int, int) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return int(f.Style.WidthInch * dpi), int(f.Style.HeightInch * dpi)
}
