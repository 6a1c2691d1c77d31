package views

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"popdash/internal/models"
)

const DonutTitle = "Health Expenditure Distribution"

// category10 is d3's ordinal palette.
var category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Donut splits the selected year's health expenditure into one arc per
// expenditure series.
type Donut struct {
	base
}

func NewDonut(s *Surface, size Size) *Donut {
	return &Donut{base: newBase(s, ContainerDonut, DonutTitle, size)}
}

func (d *Donut) Render(rows []models.ExpenditureRecord) error {
	vals := make([]float64, len(rows))
	var total float64
	for i, r := range rows {
		vals[i] = r.Value
		total += r.Value
	}
	if AllZero(vals) {
		return d.empty()
	}

	// colours are assigned by first appearance of the series name
	colors := make(map[string]string)
	tp := newTooltipPrinter()
	sc := d.scene()
	sc.State = StatePopulated
	for _, r := range rows {
		c, ok := colors[r.SeriesName]
		if !ok {
			c = category10[len(colors)%len(category10)]
			colors[r.SeriesName] = c
			sc.Legend = append(sc.Legend, LegendItem{Label: r.SeriesName, Color: c})
		}
		sc.Series = append(sc.Series, Series{
			Name:   r.SeriesName,
			Class:  "arc",
			Color:  c,
			Points: []Point{{Label: r.SeriesCode, Y: r.Value}},
		})
		sc.Tooltips = append(sc.Tooltips, Tooltip{Series: r.SeriesName, Label: r.SeriesCode, Text: tp.share(r.SeriesName, r.Value, total)})
	}

	return d.finish(sc, func() ([]byte, error) { return donutSVG(d.size, sc) })
}

func donutSVG(size Size, sc Scene) ([]byte, error) {
	values := make([]chart.Value, 0, len(sc.Series))
	for _, s := range sc.Series {
		v := s.Points[0].Y
		if v <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: s.Name,
			Value: v,
			Style: chart.Style{FillColor: drawing.ColorFromHex(s.Color), StrokeColor: drawing.ColorWhite},
		})
	}
	c := chart.DonutChart{
		Title:  sc.Title,
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
