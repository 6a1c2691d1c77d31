package views

import (
	"bytes"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"popdash/internal/models"
)

const ButterflyTitle = "Gender Distribution of Age Groups"

// Butterfly draws male and female age-group shares as bars diverging from a
// shared axis: male to the left, female to the right.
type Butterfly struct {
	base
}

func NewButterfly(s *Surface, size Size) *Butterfly {
	return &Butterfly{base: newBase(s, ContainerButterfly, ButterflyTitle, size)}
}

func (b *Butterfly) Render(male, female []models.AgeGroupRecord) error {
	maleVals, femaleVals := ageValues(male), ageValues(female)
	if AllZero(maleVals) && AllZero(femaleVals) {
		return b.empty()
	}

	// band order is first-seen, male rows before female
	var bands []string
	seen := make(map[string]bool)
	for _, rows := range [][]models.AgeGroupRecord{male, female} {
		for _, r := range rows {
			if !seen[r.AgeGroup] {
				seen[r.AgeGroup] = true
				bands = append(bands, r.AgeGroup)
			}
		}
	}
	band := make(map[string]int, len(bands))
	for i, name := range bands {
		band[name] = i
	}

	tp := newTooltipPrinter()
	sc := b.scene()
	sc.State = StatePopulated
	sc.XDomain = &Domain{Min: 0, Max: math.Max(maxOf(maleVals), maxOf(femaleVals))}
	sc.Bands = bands
	for _, side := range []struct {
		name, class, color string
		rows               []models.AgeGroupRecord
	}{
		{"Male", "left_bar", colorMale, male},
		{"Female", "right_bar", colorFemale, female},
	} {
		s := Series{Name: side.name, Class: side.class, Color: side.color, Points: make([]Point, 0, len(side.rows))}
		for _, r := range side.rows {
			s.Points = append(s.Points, Point{Label: r.AgeGroup, X: r.Value, Y: float64(band[r.AgeGroup])})
			sc.Tooltips = append(sc.Tooltips, Tooltip{Series: side.name, Label: r.AgeGroup, Text: tp.value(r.Value)})
		}
		sc.Series = append(sc.Series, s)
		sc.Legend = append(sc.Legend, LegendItem{Label: side.name, Color: side.color})
	}

	return b.finish(sc, func() ([]byte, error) { return butterflySVG(b.size, sc) })
}

func ageValues(rows []models.AgeGroupRecord) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Value
	}
	return out
}

// mirroredTicks labels the negative half of the axis with absolute values.
var mirroredTicks = plot.TickerFunc(func(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = strings.TrimPrefix(ticks[i].Label, "-")
	}
	return ticks
})

func butterflySVG(size Size, sc Scene) ([]byte, error) {
	p := plot.New()
	p.Title.Text = sc.Title
	p.Legend.Top = true

	index := make(map[string]int, len(sc.Bands))
	for i, name := range sc.Bands {
		index[name] = i
	}
	barWidth := vg.Points(float64(size.Height) / float64(len(sc.Bands)+2) * 0.6)

	for i, s := range sc.Series {
		vals := make(plotter.Values, len(sc.Bands))
		for _, pt := range s.Points {
			v := pt.X
			if i == 0 {
				v = -v
			}
			vals[index[pt.Label]] = v
		}
		bars, err := plotter.NewBarChart(vals, barWidth)
		if err != nil {
			return nil, err
		}
		bars.Horizontal = true
		bars.Color = drawing.ColorFromHex(s.Color)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	p.NominalY(sc.Bands...)

	hi := math.Max(math.Abs(sc.XDomain.Min), math.Abs(sc.XDomain.Max))
	if hi == 0 {
		hi = 1
	}
	p.X.Min, p.X.Max = -hi, hi
	p.X.Tick.Marker = mirroredTicks

	wt, err := p.WriterTo(vg.Points(float64(size.Width)), vg.Points(float64(size.Height)), "svg")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
