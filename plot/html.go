package plot

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	htmlWidthPx  = 960
	htmlHeightPx = 600
	bandStack    = "band"
	lowerName    = "lower bound"
)

// RenderHTML writes an interactive page for the figure.
// The band is two stacked series: the invisible lower bound and the band width on top of it.
func RenderHTML(fig Figure, w io.Writer) error {
	if len(fig.Time) == 0 {
		return fmt.Errorf("error rendering page: figure has no samples")
	}

	xAxis := make([]string, len(fig.Time))
	for i, t := range fig.Time {
		xAxis[i] = strconv.FormatFloat(t, 'f', 2, 64)
	}
	lower := make([]opts.LineData, len(fig.Time))
	width := make([]opts.LineData, len(fig.Time))
	mean := make([]opts.LineData, len(fig.Time))
	for i := range fig.Time {
		lower[i] = lineValue(fig.Lower[i])
		width[i] = lineValue(fig.Upper[i] - fig.Lower[i])
		mean[i] = lineValue(fig.Mean[i])
	}

	yAxis := opts.YAxis{
		Name:  fig.YLabel,
		Scale: opts.Bool(true),
	}
	if fig.YRange != nil {
		yAxis.Min = fig.YRange.Min
		yAxis.Max = fig.YRange.Max
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fig.Title,
			Width:     fmt.Sprintf("%dpx", htmlWidthPx),
			Height:    fmt.Sprintf("%dpx", htmlHeightPx),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      fig.Title,
			Left:       "center",
			TitleStyle: &opts.TextStyle{FontSize: int(fig.Style.FontSize)},
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "30",
			Data: []string{fig.BandLabel, fig.MeanLabel},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: fig.XLabel,
			Type: "category",
		}),
		charts.WithYAxisOpts(yAxis),
	)

	line.SetXAxis(xAxis)
	line.AddSeries(lowerName, lower,
		charts.WithLineChartOpts(opts.LineChart{Stack: bandStack, ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Opacity: opts.Float(0)}),
	)
	line.AddSeries(fig.BandLabel, width,
		charts.WithLineChartOpts(opts.LineChart{Stack: bandStack, ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Opacity: opts.Float(0)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: fig.Style.FillColor, Opacity: opts.Float(float32(fig.Style.FillAlpha))}),
	)
	meanOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: fig.Style.MeanColor, Width: float32(fig.Style.MeanWidth)}),
	}
	if fig.ZeroLine {
		meanOpts = append(meanOpts, charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "zero", YAxis: 0}))
	}
	line.AddSeries(fig.MeanLabel, mean, meanOpts...)

	return line.Render(w)
}

// lineValue leaves NaN samples empty so the page shows a gap.
func lineValue(v float64) opts.LineData {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return opts.LineData{Value: "-"}
	}
	return opts.LineData{Value: v}
}
