package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popdash/internal/models"
)

var testSize = Size{Width: 480, Height: 320}

func kenyaAges() (male, female []models.AgeGroupRecord) {
	male = []models.AgeGroupRecord{{Country: "Kenya", Gender: models.Male, Year: 2010, AgeGroup: "0-14", Value: 12.5}}
	female = []models.AgeGroupRecord{{Country: "Kenya", Gender: models.Female, Year: 2010, AgeGroup: "0-14", Value: 14.2}}
	return male, female
}

func TestAllZero(t *testing.T) {
	assert.True(t, AllZero(nil), "vacuously true on empty input")
	assert.True(t, AllZero([]float64{0, 0, 0}))
	assert.False(t, AllZero([]float64{0, -0.5}))
}

func TestExtent(t *testing.T) {
	lo, hi := extent([]int{2005, 2000, 2022})
	assert.Equal(t, 2000, lo)
	assert.Equal(t, 2022, hi)

	flo, fhi := extent([]float64(nil))
	assert.Zero(t, flo)
	assert.Zero(t, fhi)

	assert.Equal(t, Domain{Min: 4, Max: 6}, padded(Domain{Min: 5, Max: 5}))
	assert.Equal(t, Domain{Min: 1, Max: 2}, padded(Domain{Min: 1, Max: 2}))
}

func TestTooltipFormatting(t *testing.T) {
	tp := newTooltipPrinter()
	assert.Equal(t, "12.50", tp.value(12.5))
	assert.Equal(t, "1,234.57", tp.value(1234.567))
	assert.Equal(t, "External: 3.00", tp.named("External", 3))
	assert.Equal(t, "External: 3.00 (25.0%)", tp.share("External", 3, 12))
}

func TestButterflyDrawsBothBars(t *testing.T) {
	surface := NewSurface()
	b := NewButterfly(surface, testSize)
	assert.Equal(t, StateUninitialized, surface.State(ContainerButterfly))

	male, female := kenyaAges()
	require.NoError(t, b.Render(male, female))

	sc, ok := surface.Scene(ContainerButterfly)
	require.True(t, ok)
	assert.Equal(t, StatePopulated, sc.State)
	assert.Equal(t, ButterflyTitle, sc.Title)
	assert.Equal(t, &Domain{Min: 0, Max: 14.2}, sc.XDomain)
	assert.Equal(t, []string{"0-14"}, sc.Bands)

	require.Len(t, sc.Series, 2)
	assert.Equal(t, "left_bar", sc.Series[0].Class)
	assert.Equal(t, "right_bar", sc.Series[1].Class)
	require.Len(t, sc.Series[0].Points, 1)
	require.Len(t, sc.Series[1].Points, 1)
	assert.Equal(t, 12.5, sc.Series[0].Points[0].X)
	assert.Equal(t, 14.2, sc.Series[1].Points[0].X)
	assert.Equal(t, "12.50", sc.Tooltips[0].Text)

	assert.Contains(t, string(sc.SVG), "<svg")
	assert.NotZero(t, sc.Fingerprint)
}

func TestButterflyNoRowsShowsPlaceholder(t *testing.T) {
	surface := NewSurface()
	b := NewButterfly(surface, testSize)

	require.NoError(t, b.Render([]models.AgeGroupRecord{}, []models.AgeGroupRecord{}))

	sc, ok := surface.Scene(ContainerButterfly)
	require.True(t, ok)
	assert.Equal(t, StateEmpty, sc.State)
	assert.Equal(t, NoDataMessage, sc.Message)
	assert.Empty(t, sc.Series)
	assert.Nil(t, sc.XDomain)
	assert.Contains(t, string(sc.SVG), NoDataMessage)
}

func TestButterflyNeedsBothSidesZeroForPlaceholder(t *testing.T) {
	surface := NewSurface()
	b := NewButterfly(surface, testSize)

	male, _ := kenyaAges()
	female := []models.AgeGroupRecord{{AgeGroup: "0-14", Gender: models.Female, Value: 0}}
	require.NoError(t, b.Render(male, female))
	assert.Equal(t, StatePopulated, surface.State(ContainerButterfly))
}

func TestRenderIsIdempotent(t *testing.T) {
	surface := NewSurface()
	b := NewButterfly(surface, testSize)
	male, female := kenyaAges()

	require.NoError(t, b.Render(male, female))
	first, _ := surface.Scene(ContainerButterfly)
	require.NoError(t, b.Render(male, female))
	second, _ := surface.Scene(ContainerButterfly)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{ContainerButterfly}, surface.Containers())
}

func TestDonutZeroRowsShowPlaceholder(t *testing.T) {
	surface := NewSurface()
	d := NewDonut(surface, testSize)

	rows := []models.ExpenditureRecord{
		{Country: "Kenya", SeriesName: "Domestic general government", Year: 2010},
		{Country: "Kenya", SeriesName: "Domestic private", Year: 2010},
		{Country: "Kenya", SeriesName: "External", Year: 2010},
	}
	require.NoError(t, d.Render(rows))

	sc, _ := surface.Scene(ContainerDonut)
	assert.Equal(t, StateEmpty, sc.State)
	assert.Equal(t, NoDataMessage, sc.Message)
}

func TestDonutArcsPerRow(t *testing.T) {
	surface := NewSurface()
	d := NewDonut(surface, testSize)

	rows := []models.ExpenditureRecord{
		{SeriesCode: "GHED", SeriesName: "Government", Value: 30},
		{SeriesCode: "PVTD", SeriesName: "Private", Value: 10},
		{SeriesCode: "EHEX", SeriesName: "External", Value: 0},
	}
	require.NoError(t, d.Render(rows))

	sc, _ := surface.Scene(ContainerDonut)
	assert.Equal(t, StatePopulated, sc.State)
	require.Len(t, sc.Series, 3)
	assert.Equal(t, category10[0], sc.Series[0].Color)
	assert.Equal(t, category10[1], sc.Series[1].Color)
	assert.Equal(t, "Government: 30.00 (75.0%)", sc.Tooltips[0].Text)
	assert.NotEmpty(t, sc.SVG)
}

func TestLineDomains(t *testing.T) {
	surface := NewSurface()
	l := NewLine(surface, testSize)

	urban := []models.GrowthRecord{{Year: 2000, Value: 4.3}, {Year: 2005, Value: 4.1}}
	rural := []models.GrowthRecord{{Year: 2000, Value: 2.1}, {Year: 2005, Value: -0.5}}
	require.NoError(t, l.Render(urban, rural))

	sc, _ := surface.Scene(ContainerLine)
	assert.Equal(t, StatePopulated, sc.State)
	assert.Equal(t, &Domain{Min: 2000, Max: 2005}, sc.XDomain)
	assert.Equal(t, &Domain{Min: -0.5, Max: 4.3}, sc.YDomain)
	assert.Equal(t, "Year", sc.XLabel)
	assert.Equal(t, "Values", sc.YLabel)
	assert.Equal(t, []LegendItem{{UrbanSeries, colorUrban}, {RuralSeries, colorRural}}, sc.Legend)
	assert.NotEmpty(t, sc.SVG)

	// positive-only data still anchors the y domain at zero
	require.NoError(t, l.Render(urban, nil))
	sc, _ = surface.Scene(ContainerLine)
	assert.Equal(t, 0.0, sc.YDomain.Min)
}

func TestScatterHighlightsSelection(t *testing.T) {
	surface := NewSurface()
	s := NewScatter(surface, testSize)

	points := []models.ScatterPoint{
		{Country: "Kenya", LifeExpectancy: 61.2, HealthExpenditure: 42},
		{Country: "Chad", LifeExpectancy: 50.1, HealthExpenditure: 0},
	}
	require.NoError(t, s.Render(points, models.Selection{Country: "Kenya", Year: 2010}))

	sc, _ := surface.Scene(ContainerScatter)
	assert.Equal(t, StatePopulated, sc.State)
	assert.Equal(t, "Life Expectancy 2010", sc.XLabel)
	assert.Equal(t, ScatterYLabel, sc.YLabel)
	assert.Equal(t, &Domain{Min: 50.1, Max: 61.2}, sc.XDomain)
	assert.Equal(t, &Domain{Min: 0, Max: 42}, sc.YDomain)
	require.Len(t, sc.Series, 1)
	assert.True(t, sc.Series[0].Points[0].Highlight)
	assert.False(t, sc.Series[0].Points[1].Highlight)
	assert.NotEmpty(t, sc.SVG)
}

func TestAdaptersKeepToTheirContainers(t *testing.T) {
	surface := NewSurface()
	male, female := kenyaAges()
	require.NoError(t, NewButterfly(surface, testSize).Render(male, female))
	require.NoError(t, NewScatter(surface, testSize).Render(nil, models.DefaultSelection()))

	assert.Equal(t, StatePopulated, surface.State(ContainerButterfly))
	assert.Equal(t, StateEmpty, surface.State(ContainerScatter))
	assert.Equal(t, StateUninitialized, surface.State(ContainerDonut))
	assert.Equal(t, StateUninitialized, surface.State(ContainerLine))
}
