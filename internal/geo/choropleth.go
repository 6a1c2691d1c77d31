package geo

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"popdash/internal/engine"
	"popdash/internal/models"
)

const DatasetGeoJSON = "geojson"

// NameProperty is the feature property carrying the country name.
const NameProperty = "ADMIN"

const (
	lowColor  = "#deebf7"
	highColor = "#08306b"
	NoData    = "#FFFFFF"
)

// goccyCodec lets orb decode GeoJSON with goccy/go-json.
type goccyCodec struct{}

func (goccyCodec) Marshal(v interface{}) ([]byte, error)      { return json.Marshal(v) }
func (goccyCodec) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

func init() {
	geojson.CustomJSONMarshaler = goccyCodec{}
	geojson.CustomJSONUnmarshaler = goccyCodec{}
}

// Region is one country's fill on the map for a given year.
type Region struct {
	Country    string  `json:"country"`
	Population float64 `json:"population"`
	HasData    bool    `json:"has_data"`
	Fill       string  `json:"fill"`
	Tooltip    string  `json:"tooltip"`
	Selected   bool    `json:"selected,omitempty"`
}

type feature struct {
	country string
	geom    orb.Geometry
	bound   orb.Bound
}

// Map joins country shapes with population-by-year.
type Map struct {
	features   []feature
	population map[string]map[int]float64
	// every population row per year, features or not; the colour domain
	// is taken over all of them
	columns map[int][]float64
}

func New(fc *geojson.FeatureCollection, records []models.PopulationRecord) *Map {
	m := &Map{
		population: make(map[string]map[int]float64, len(records)),
		columns:    make(map[int][]float64, len(models.Years)),
	}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		m.features = append(m.features, feature{
			country: f.Properties.MustString(NameProperty, ""),
			geom:    f.Geometry,
			bound:   f.Geometry.Bound(),
		})
	}
	for _, r := range records {
		m.population[r.Country] = r.ByYear
		for _, y := range models.Years {
			m.columns[y] = append(m.columns[y], r.ByYear[y])
		}
	}
	return m
}

// Load reads a GeoJSON FeatureCollection from path.
func Load(path string, pop *engine.PopulationTable) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &engine.LoadError{Dataset: DatasetGeoJSON, Path: path, Err: err}
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, &engine.LoadError{Dataset: DatasetGeoJSON, Path: path, Err: fmt.Errorf("decode feature collection: %w", err)}
	}
	var records []models.PopulationRecord
	if pop != nil {
		records = pop.Records()
	}
	return New(fc, records), nil
}

// Layer colours every feature by its population in year. A zero or missing
// population is drawn as no data.
func (m *Map) Layer(year int) ([]Region, error) {
	if !models.ValidYear(year) {
		return nil, &engine.ConfigurationError{Year: year}
	}
	scale := newScale(m.columns[year])

	out := make([]Region, 0, len(m.features))
	for _, f := range m.features {
		r := Region{Country: f.country, Fill: NoData, Tooltip: f.country + ": No Data"}
		if v := m.population[f.country][year]; v != 0 {
			r.Population = v
			r.HasData = true
			r.Fill = scale.color(v)
			r.Tooltip = f.country + ": " + strconv.FormatFloat(v, 'f', -1, 64)
		}
		out = append(out, r)
	}
	return out, nil
}

// Locate returns the country whose shape contains (lon, lat).
func (m *Map) Locate(lon, lat float64) (string, bool) {
	pt := orb.Point{lon, lat}
	for _, f := range m.features {
		if !f.bound.Contains(pt) {
			continue
		}
		if contains(f.geom, pt) {
			return f.country, true
		}
	}
	return "", false
}

// Has reports whether a feature is named exactly country.
func (m *Map) Has(country string) bool {
	for _, f := range m.features {
		if f.country == country {
			return true
		}
	}
	return false
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch g := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	case orb.Collection:
		for _, sub := range g {
			if contains(sub, pt) {
				return true
			}
		}
	}
	return false
}

// scale maps [min, max] linearly onto the blue ramp, interpolating in RGB.
type scale struct {
	min, max  float64
	low, high colorful.Color
}

func newScale(values []float64) scale {
	s := scale{}
	s.low, _ = colorful.Hex(lowColor)
	s.high, _ = colorful.Hex(highColor)
	for i, v := range values {
		if i == 0 || v < s.min {
			s.min = v
		}
		if i == 0 || v > s.max {
			s.max = v
		}
	}
	return s
}

func (s scale) color(v float64) string {
	t := 0.5
	if s.max > s.min {
		t = (v - s.min) / (s.max - s.min)
	}
	return s.low.BlendRgb(s.high, t).Clamped().Hex()
}
