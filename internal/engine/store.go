package engine

import (
	"strings"

	"popdash/internal/models"
)

// dict is a string dictionary: value <-> dense int32 ID.
type dict struct {
	ids    map[string]int32
	values []string
}

func newDict() *dict {
	return &dict{ids: make(map[string]int32)}
}

func (d *dict) intern(s string) int32 {
	if id, ok := d.ids[s]; ok {
		return id
	}
	id := int32(len(d.values))
	str := strings.Clone(s) // arrow string values alias the record buffer
	d.values = append(d.values, str)
	d.ids[str] = id
	return id
}

func (d *dict) lookup(s string) (int32, bool) {
	id, ok := d.ids[s]
	return id, ok
}

func (d *dict) value(id int32) string { return d.values[id] }

func (d *dict) len() int { return len(d.values) }

// The tables below hold data in struct-of-arrays form. Countries are
// dictionary encoded so a projection compares int32 IDs instead of strings.

type AgeTable struct {
	CountryIDs []int32
	Genders    []models.Gender
	Years      []int32
	AgeGroups  []string
	Values     []float64

	countries *dict
}

func newAgeTable() *AgeTable { return &AgeTable{countries: newDict()} }

func (t *AgeTable) Len() int { return len(t.Values) }

func (t *AgeTable) row(i int) models.AgeGroupRecord {
	return models.AgeGroupRecord{
		Country:  t.countries.value(t.CountryIDs[i]),
		Gender:   t.Genders[i],
		Year:     int(t.Years[i]),
		AgeGroup: t.AgeGroups[i],
		Value:    t.Values[i],
	}
}

type GrowthTable struct {
	CountryIDs   []int32
	ContinentIDs []int32
	SeriesCodes  []string
	Years        []int32
	Values       []float64

	countries  *dict
	continents *dict
}

func newGrowthTable() *GrowthTable {
	return &GrowthTable{countries: newDict(), continents: newDict()}
}

func (t *GrowthTable) Len() int { return len(t.Values) }

func (t *GrowthTable) row(i int) models.GrowthRecord {
	return models.GrowthRecord{
		Country:    t.countries.value(t.CountryIDs[i]),
		Continent:  t.continents.value(t.ContinentIDs[i]),
		SeriesCode: t.SeriesCodes[i],
		Year:       int(t.Years[i]),
		Value:      t.Values[i],
	}
}

type ExpenditureTable struct {
	CountryIDs  []int32
	SeriesCodes []string
	SeriesNames []string
	Years       []int32
	Values      []float64

	countries *dict
}

func newExpenditureTable() *ExpenditureTable {
	return &ExpenditureTable{countries: newDict()}
}

func (t *ExpenditureTable) Len() int { return len(t.Values) }

func (t *ExpenditureTable) row(i int) models.ExpenditureRecord {
	return models.ExpenditureRecord{
		Country:    t.countries.value(t.CountryIDs[i]),
		SeriesCode: t.SeriesCodes[i],
		SeriesName: t.SeriesNames[i],
		Year:       int(t.Years[i]),
		Value:      t.Values[i],
	}
}

// ScatterTable has one row per country. Fields is keyed by column name
// (e.g. "LE_2010") and every column has len(Countries) values.
type ScatterTable struct {
	Countries []string
	Fields    map[string][]float64
}

func (t *ScatterTable) Len() int { return len(t.Countries) }

// PopulationTable has one row per country and one column per published year.
type PopulationTable struct {
	Countries []string
	ByYear    map[int][]float64
}

func (t *PopulationTable) Len() int { return len(t.Countries) }

func (t *PopulationTable) Records() []models.PopulationRecord {
	out := make([]models.PopulationRecord, 0, len(t.Countries))
	for i, c := range t.Countries {
		rec := models.PopulationRecord{Country: c, ByYear: make(map[int]float64, len(t.ByYear))}
		for y, col := range t.ByYear {
			rec.ByYear[y] = col[i]
		}
		out = append(out, rec)
	}
	return out
}

// Datasets is the read-only store every projection runs against.
type Datasets struct {
	Ages        *AgeTable
	Growth      *GrowthTable
	Scatter     *ScatterTable
	Expenditure *ExpenditureTable
	Population  *PopulationTable
}
