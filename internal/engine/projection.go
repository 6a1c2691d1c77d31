package engine

import (
	"fmt"

	"popdash/internal/models"
)

// --- 1. PROJECTIONS ---
// Pure functions of (Datasets, Selection). Nothing here reads or writes state
// outside its arguments, so repeated calls return identical slices in
// identical order.

// Kind names a dataset a projection can run against.
type Kind string

const (
	KindAgeGroups   Kind = "ages"
	KindGrowth      Kind = "growth"
	KindScatter     Kind = "scatter"
	KindExpenditure Kind = "expenditure"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAgeGroups, KindGrowth, KindScatter, KindExpenditure:
		return k, nil
	}
	return "", fmt.Errorf("unknown dataset kind %q", s)
}

type AgeProjection struct {
	Male   []models.AgeGroupRecord `json:"male"`
	Female []models.AgeGroupRecord `json:"female"`
}

type GrowthProjection struct {
	Urban []models.GrowthRecord `json:"urban"`
	Rural []models.GrowthRecord `json:"rural"`
}

// Projection is the result of Project; only the field matching Kind is set.
type Projection struct {
	Kind        Kind                       `json:"kind"`
	Selection   models.Selection           `json:"selection"`
	Ages        *AgeProjection             `json:"ages,omitempty"`
	Growth      *GrowthProjection          `json:"growth,omitempty"`
	Scatter     []models.ScatterPoint      `json:"scatter,omitempty"`
	Expenditure []models.ExpenditureRecord `json:"expenditure,omitempty"`
}

// Project reduces one dataset to the rows its chart needs for sel.
func (d *Datasets) Project(kind Kind, sel models.Selection) (Projection, error) {
	p := Projection{Kind: kind, Selection: sel}
	switch kind {
	case KindAgeGroups:
		ages := d.ProjectAges(sel)
		p.Ages = &ages
	case KindGrowth:
		growth := d.ProjectGrowth(sel)
		p.Growth = &growth
	case KindScatter:
		points, err := d.ProjectScatter(sel)
		if err != nil {
			return p, err
		}
		p.Scatter = points
	case KindExpenditure:
		p.Expenditure = d.ProjectExpenditure(sel)
	default:
		return p, fmt.Errorf("unknown dataset kind %q", kind)
	}
	return p, nil
}

// ProjectAges returns the (country, year) rows split by gender, in source order.
func (d *Datasets) ProjectAges(sel models.Selection) AgeProjection {
	out := AgeProjection{
		Male:   []models.AgeGroupRecord{},
		Female: []models.AgeGroupRecord{},
	}
	t := d.Ages
	if t == nil || !sel.HasCountry() || !models.ValidYear(sel.Year) {
		return out
	}
	cid, ok := t.countries.lookup(sel.Country)
	if !ok {
		return out
	}

	year := int32(sel.Year)
	for i, c := range t.CountryIDs {
		if c != cid || t.Years[i] != year {
			continue
		}
		switch t.Genders[i] {
		case models.Male:
			out.Male = append(out.Male, t.row(i))
		case models.Female:
			out.Female = append(out.Female, t.row(i))
		}
	}
	return out
}

// ProjectGrowth returns every year of the country's urban and rural growth.
// The year only has to be a published one; it does not narrow the rows.
func (d *Datasets) ProjectGrowth(sel models.Selection) GrowthProjection {
	out := GrowthProjection{
		Urban: []models.GrowthRecord{},
		Rural: []models.GrowthRecord{},
	}
	t := d.Growth
	if t == nil || !sel.HasCountry() || !models.ValidYear(sel.Year) {
		return out
	}
	cid, ok := t.countries.lookup(sel.Country)
	if !ok {
		return out
	}

	for i, c := range t.CountryIDs {
		if c != cid {
			continue
		}
		switch t.SeriesCodes[i] {
		case models.SeriesUrbanGrowth:
			out.Urban = append(out.Urban, t.row(i))
		case models.SeriesRuralGrowth:
			out.Rural = append(out.Rural, t.row(i))
		}
	}
	return out
}

func (d *Datasets) ProjectExpenditure(sel models.Selection) []models.ExpenditureRecord {
	out := []models.ExpenditureRecord{}
	t := d.Expenditure
	if t == nil || !sel.HasCountry() || !models.ValidYear(sel.Year) {
		return out
	}
	cid, ok := t.countries.lookup(sel.Country)
	if !ok {
		return out
	}

	year := int32(sel.Year)
	for i, c := range t.CountryIDs {
		if c == cid && t.Years[i] == year {
			out = append(out, t.row(i))
		}
	}
	return out
}

// ProjectScatter returns one point per country for the selected year, read
// from the LE_<year> and HE_<year> columns. Years outside models.Years are a
// *ConfigurationError.
func (d *Datasets) ProjectScatter(sel models.Selection) ([]models.ScatterPoint, error) {
	if !models.ValidYear(sel.Year) {
		return nil, &ConfigurationError{Year: sel.Year}
	}
	out := []models.ScatterPoint{}
	t := d.Scatter
	if t == nil || !sel.HasCountry() {
		return out, nil
	}

	le, okLE := t.Fields[ScatterField(LifeExpectancyPrefix, sel.Year)]
	he, okHE := t.Fields[ScatterField(HealthExpenditurePrefix, sel.Year)]
	if !okLE || !okHE {
		return nil, &ConfigurationError{Year: sel.Year}
	}

	for i, country := range t.Countries {
		out = append(out, models.ScatterPoint{
			Country:           country,
			LifeExpectancy:    le[i],
			HealthExpenditure: he[i],
		})
	}
	return out, nil
}
