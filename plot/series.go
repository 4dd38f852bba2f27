package plot

import (
	"errors"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// traceSeries is a line that breaks at NaN samples instead of drawing garbage.
type traceSeries struct {
	name  string
	style chart.Style
	x     []float64
	y     []float64
}

func (s traceSeries) GetName() string                    { return s.name }
func (s traceSeries) GetYAxis() chart.YAxisType          { return chart.YAxisPrimary }
func (s traceSeries) GetStyle() chart.Style              { return s.style }
func (s traceSeries) Len() int                           { return len(s.x) }
func (s traceSeries) GetValues(i int) (float64, float64) { return s.x[i], s.y[i] }

func (s traceSeries) Validate() error {
	if len(s.x) == 0 {
		return errors.New("trace series has no values")
	}
	if len(s.x) != len(s.y) {
		return errors.New("trace series x and y lengths differ")
	}
	return nil
}

func (s traceSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	r.SetStrokeColor(s.style.StrokeColor)
	r.SetStrokeWidth(s.style.StrokeWidth)
	r.SetStrokeDashArray(s.style.StrokeDashArray)

	open := false
	for i := range s.x {
		if math.IsNaN(s.x[i]) || math.IsNaN(s.y[i]) {
			if open {
				r.Stroke()
				open = false
			}
			continue
		}
		px, py := toCanvas(canvasBox, xrange, yrange, s.x[i], s.y[i])
		if !open {
			r.MoveTo(px, py)
			open = true
			continue
		}
		r.LineTo(px, py)
	}
	if open {
		r.Stroke()
	}
}

// bandSeries fills between lower and upper, then draws the dashed zero line
// so it sits above the band and below the mean trace.
type bandSeries struct {
	name      string
	style     chart.Style // legend swatch
	fill      drawing.Color
	x         []float64
	lower     []float64
	upper     []float64
	zero      bool
	zeroColor drawing.Color
	zeroWidth float64
	zeroDash  []float64
}

func (s bandSeries) GetName() string           { return s.name }
func (s bandSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s bandSeries) GetStyle() chart.Style     { return s.style }
func (s bandSeries) Len() int                  { return len(s.x) }

func (s bandSeries) GetBoundedValues(i int) (float64, float64, float64) {
	return s.x[i], s.upper[i], s.lower[i]
}

func (s bandSeries) Validate() error {
	if len(s.x) == 0 {
		return errors.New("band series has no values")
	}
	if len(s.lower) != len(s.x) || len(s.upper) != len(s.x) {
		return errors.New("band series bounds and x lengths differ")
	}
	return nil
}

func (s bandSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	r.SetFillColor(s.fill)
	start := -1
	for i := 0; i <= len(s.x); i++ {
		valid := i < len(s.x) && !math.IsNaN(s.x[i]) && !math.IsNaN(s.lower[i]) && !math.IsNaN(s.upper[i])
		if valid && start < 0 {
			start = i
		}
		if !valid && start >= 0 {
			s.fillRun(r, canvasBox, xrange, yrange, start, i-1)
			start = -1
		}
	}

	if !s.zero {
		return
	}
	_, y0 := toCanvas(canvasBox, xrange, yrange, 0, 0)
	if y0 <= canvasBox.Top || y0 >= canvasBox.Bottom {
		return
	}
	r.SetStrokeColor(s.zeroColor)
	r.SetStrokeWidth(s.zeroWidth)
	r.SetStrokeDashArray(s.zeroDash)
	r.MoveTo(canvasBox.Left, y0)
	r.LineTo(canvasBox.Right, y0)
	r.Stroke()
	r.SetStrokeDashArray(nil)
}

func (s bandSeries) fillRun(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, from, to int) {
	px, py := toCanvas(canvasBox, xrange, yrange, s.x[from], s.upper[from])
	r.MoveTo(px, py)
	for i := from + 1; i <= to; i++ {
		px, py = toCanvas(canvasBox, xrange, yrange, s.x[i], s.upper[i])
		r.LineTo(px, py)
	}
	for i := to; i >= from; i-- {
		px, py = toCanvas(canvasBox, xrange, yrange, s.x[i], s.lower[i])
		r.LineTo(px, py)
	}
	r.Close()
	r.Fill()
}

// toCanvas maps data to pixels, clamping y to the plot area like axes clipping.
func toCanvas(canvasBox chart.Box, xrange, yrange chart.Range, x, y float64) (int, int) {
	px := canvasBox.Left + xrange.Translate(x)
	py := canvasBox.Bottom - yrange.Translate(y)
	if py < canvasBox.Top {
		py = canvasBox.Top
	}
	if py > canvasBox.Bottom {
		py = canvasBox.Bottom
	}
	return px, py
}
