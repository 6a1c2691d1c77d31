package views

import (
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"popdash/internal/models"
)

const (
	ScatterTitle    = "Life Expectancy and Health Expenditure"
	ScatterYLabel   = "Health Expenditure"
	countriesSeries = "Countries"
	selectedSeries  = "Selected"
)

// Scatter places every country by life expectancy (x) and health
// expenditure (y) for one year, highlighting the selected country.
type Scatter struct {
	base
}

func NewScatter(s *Surface, size Size) *Scatter {
	return &Scatter{base: newBase(s, ContainerScatter, ScatterTitle, size)}
}

func ScatterXLabel(year int) string {
	return "Life Expectancy " + strconv.Itoa(year)
}

func (s *Scatter) Render(points []models.ScatterPoint, sel models.Selection) error {
	le := make([]float64, len(points))
	he := make([]float64, len(points))
	for i, p := range points {
		le[i], he[i] = p.LifeExpectancy, p.HealthExpenditure
	}
	if AllZero(le) && AllZero(he) {
		return s.empty()
	}

	lo, hi := extent(le)
	tp := newTooltipPrinter()
	sc := s.scene()
	sc.State = StatePopulated
	sc.XLabel, sc.YLabel = ScatterXLabel(sel.Year), ScatterYLabel
	sc.XDomain = &Domain{Min: lo, Max: hi}
	sc.YDomain = &Domain{Min: 0, Max: maxOf(he)}

	all := Series{Name: countriesSeries, Class: "circle", Color: colorSteelBlue, Points: make([]Point, 0, len(points))}
	for _, p := range points {
		highlight := sel.HasCountry() && p.Country == sel.Country
		all.Points = append(all.Points, Point{Label: p.Country, X: p.LifeExpectancy, Y: p.HealthExpenditure, Highlight: highlight})
		sc.Tooltips = append(sc.Tooltips, Tooltip{
			Label: p.Country,
			Text:  tp.p.Sprintf("%s: %.2f, %.2f", p.Country, p.LifeExpectancy, p.HealthExpenditure),
		})
	}
	sc.Series = []Series{all}
	sc.Legend = []LegendItem{{Label: countriesSeries, Color: colorSteelBlue}}
	if sel.HasCountry() {
		sc.Legend = append(sc.Legend, LegendItem{Label: sel.Country, Color: colorOrange})
	}

	return s.finish(sc, func() ([]byte, error) { return scatterSVG(s.size, sc) })
}

func scatterSVG(size Size, sc Scene) ([]byte, error) {
	// the highlighted point is drawn again on top, in its own colour
	series := append([]Series(nil), sc.Series...)
	highlight := Series{Name: selectedSeries, Color: colorOrange}
	for _, p := range sc.Series[0].Points {
		if p.Highlight {
			highlight.Points = append(highlight.Points, p)
		}
	}
	series = append(series, highlight)

	c := chart.Chart{
		Title:  sc.Title,
		Width:  size.Width,
		Height: size.Height,
		XAxis: chart.XAxis{
			Name:  sc.XLabel,
			Range: rangeOf(*sc.XDomain),
		},
		YAxis: chart.YAxis{
			Name:  sc.YLabel,
			Range: rangeOf(*sc.YDomain),
		},
		Series: continuous(series, func(s Series) chart.Style {
			width := 3.0
			if s.Name == selectedSeries {
				width = 5
			}
			return chart.Style{StrokeWidth: chart.Disabled, DotColor: drawing.ColorFromHex(s.Color), DotWidth: width}
		}),
	}
	return renderChart(c)
}
