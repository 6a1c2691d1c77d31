package views

import (
	"bytes"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"popdash/internal/models"
)

const (
	LineTitle   = "Growth Rate in Population"
	UrbanSeries = "Urban growth"
	RuralSeries = "Rural growth"
)

// Line plots urban and rural growth over every published year.
type Line struct {
	base
}

func NewLine(s *Surface, size Size) *Line {
	return &Line{base: newBase(s, ContainerLine, LineTitle, size)}
}

func (l *Line) Render(urban, rural []models.GrowthRecord) error {
	urbanVals, ruralVals := growthValues(urban), growthValues(rural)
	if AllZero(urbanVals) && AllZero(ruralVals) {
		return l.empty()
	}

	years := make([]int, 0, len(urban)+len(rural))
	for _, rows := range [][]models.GrowthRecord{urban, rural} {
		for _, r := range rows {
			years = append(years, r.Year)
		}
	}
	all := append(append([]float64(nil), urbanVals...), ruralVals...)
	minYear, maxYear := extent(years)
	minVal, maxVal := extent(all)

	tp := newTooltipPrinter()
	sc := l.scene()
	sc.State = StatePopulated
	sc.XLabel, sc.YLabel = "Year", "Values"
	sc.XDomain = &Domain{Min: float64(minYear), Max: float64(maxYear)}
	sc.YDomain = &Domain{Min: math.Min(0, minVal), Max: maxVal}
	for _, line := range []struct {
		name, class, color string
		rows               []models.GrowthRecord
	}{
		{UrbanSeries, "urban", colorUrban, urban},
		{RuralSeries, "rural", colorRural, rural},
	} {
		s := Series{Name: line.name, Class: line.class, Color: line.color, Points: make([]Point, 0, len(line.rows))}
		for _, r := range line.rows {
			label := strconv.Itoa(r.Year)
			s.Points = append(s.Points, Point{Label: label, X: float64(r.Year), Y: r.Value})
			sc.Tooltips = append(sc.Tooltips, Tooltip{Series: line.name, Label: label, Text: tp.value(r.Value)})
		}
		sc.Series = append(sc.Series, s)
		sc.Legend = append(sc.Legend, LegendItem{Label: line.name, Color: line.color})
	}

	return l.finish(sc, func() ([]byte, error) { return lineSVG(l.size, sc) })
}

func growthValues(rows []models.GrowthRecord) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Value
	}
	return out
}

// continuous converts scene series to go-chart series, skipping empty ones.
func continuous(series []Series, style func(Series) chart.Style) []chart.Series {
	out := make([]chart.Series, 0, len(series))
	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		out = append(out, chart.ContinuousSeries{
			Name:    s.Name,
			Style:   style(s),
			XValues: xs,
			YValues: ys,
		})
	}
	return out
}

func rangeOf(d Domain) *chart.ContinuousRange {
	d = padded(d)
	return &chart.ContinuousRange{Min: d.Min, Max: d.Max}
}

func renderChart(c chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lineSVG(size Size, sc Scene) ([]byte, error) {
	c := chart.Chart{
		Title:  sc.Title,
		Width:  size.Width,
		Height: size.Height,
		XAxis: chart.XAxis{
			Name:           sc.XLabel,
			ValueFormatter: chart.IntValueFormatter,
			Range:          rangeOf(*sc.XDomain),
		},
		YAxis: chart.YAxis{
			Name:  sc.YLabel,
			Range: rangeOf(*sc.YDomain),
		},
		Series: continuous(sc.Series, func(s Series) chart.Style {
			c := drawing.ColorFromHex(s.Color)
			return chart.Style{StrokeColor: c, StrokeWidth: 2, DotColor: c, DotWidth: 3}
		}),
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return renderChart(c)
}
