package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DrawFigure renders the figure to PNG at the given dpi.
func DrawFigure(fig Figure, dpi float64) ([]byte, error) {
	if len(fig.Time) == 0 {
		return nil, errors.New("error rendering chart: figure has no samples")
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	scale := dpi / 72.0
	width, height := fig.PixelSize(dpi)
	style := fig.Style

	fill := hexColor(style.FillColor).WithAlpha(uint8(math.Round(style.FillAlpha * 255)))
	band := bandSeries{
		name: fig.BandLabel,
		style: chart.Style{
			StrokeColor: fill,
			StrokeWidth: 6 * scale,
		},
		fill:      fill,
		x:         fig.Time,
		lower:     fig.Lower,
		upper:     fig.Upper,
		zero:      fig.ZeroLine,
		zeroColor: hexColor(style.ZeroColor),
		zeroWidth: style.ZeroWidth * scale,
		zeroDash:  []float64{zeroDashLen * scale, zeroDashLen * scale},
	}
	mean := traceSeries{
		name: fig.MeanLabel,
		style: chart.Style{
			StrokeColor: hexColor(style.MeanColor),
			StrokeWidth: style.MeanWidth * scale,
		},
		x: fig.Time,
		y: fig.Mean,
	}

	xr := xRange(fig.Time)
	yr := fig.YRange
	if yr == nil {
		auto := autoYRange(fig.Lower, fig.Upper, fig.Mean)
		yr = &auto
	}

	graph := chart.Chart{
		Title:      fig.Title,
		TitleStyle: chart.Style{FontSize: style.FontSize},
		Width:      width,
		Height:     height,
		DPI:        dpi,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(20 * scale),
				Left:   int(10 * scale),
				Right:  int(20 * scale),
				Bottom: int(10 * scale),
			},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Name:      fig.XLabel,
			NameStyle: chart.Style{FontSize: style.FontSize},
			Style:     chart.Style{FontSize: style.FontSize * 0.8},
			Range:     &chart.ContinuousRange{Min: xr.Min, Max: xr.Max},
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return strconv.FormatFloat(vf, 'f', -1, 64)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:      fig.YLabel,
			NameStyle: chart.Style{FontSize: style.FontSize},
			Style:     chart.Style{FontSize: style.FontSize * 0.8},
			Range:     &chart.ContinuousRange{Min: yr.Min, Max: yr.Max},
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return strconv.FormatFloat(vf, 'g', 3, 64)
				}
				return ""
			},
		},
		Series: []chart.Series{
			band, // fill first, mean line drawn over it
			mean,
		},
	}
	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{FontSize: style.FontSize * 0.8}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

// DrawTraces plots the raw mean and spread traces against sample index.
func DrawTraces(title string, mean, spread []float64) ([]byte, error) {
	if len(mean) == 0 || len(mean) != len(spread) {
		return nil, fmt.Errorf("error rendering chart: mean has %d samples, spread %d", len(mean), len(spread))
	}
	index := make([]float64, len(mean))
	for i := range index {
		index[i] = float64(i)
	}
	yr := autoYRange(mean, spread)
	xr := xRange(index)

	graph := chart.Chart{
		Title:  title,
		Width:  1024,
		Height: 640,
		Background: chart.Style{
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
			FillColor: drawing.ColorWhite,
		},
		XAxis: chart.XAxis{
			Name:  "Time Points",
			Range: &chart.ContinuousRange{Min: xr.Min, Max: xr.Max},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: yr.Min, Max: yr.Max},
			ValueFormatter: func(v interface{}) string {
				if vf, isFloat := v.(float64); isFloat {
					return strconv.FormatFloat(vf, 'g', 3, 64)
				}
				return ""
			},
		},
		Series: []chart.Series{
			traceSeries{name: MeanLabel, style: chart.Style{StrokeColor: drawing.ColorBlue, StrokeWidth: 2}, x: index, y: mean},
			traceSeries{name: "Std Dev", style: chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 2}, x: index, y: spread},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %v", err)
	}
	return buffer.Bytes(), nil
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// xRange widens a degenerate single-sample axis so the chart has a width.
func xRange(values []float64) models.AxisRange {
	lo, hi, ok := finiteBounds(values)
	if !ok {
		return models.AxisRange{Min: 0, Max: 1}
	}
	if lo == hi {
		return models.AxisRange{Min: lo - 1, Max: hi + 1}
	}
	return models.AxisRange{Min: lo, Max: hi}
}

// autoYRange pads the data bounds by 5%, ignoring NaN.
func autoYRange(series ...[]float64) models.AxisRange {
	var all []float64
	for _, s := range series {
		all = append(all, s...)
	}
	lo, hi, ok := finiteBounds(all)
	if !ok {
		return models.AxisRange{Min: -1, Max: 1}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1e-9)
	}
	return models.AxisRange{Min: lo - pad, Max: hi + pad}
}

func finiteBounds(values []float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, !math.IsInf(lo, 1)
}
