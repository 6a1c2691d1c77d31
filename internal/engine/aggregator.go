package engine

import (
	"sort"

	"popdash/internal/models"
)

type coverage struct {
	continent string
	datasets  []string
	rows      int
}

// Catalog lists every country that appears in any dataset, which datasets
// carry it and how many rows it has in total. It feeds the country picker.
func (d *Datasets) Catalog() models.Catalog {
	byCountry := make(map[string]*coverage)
	get := func(country string) *coverage {
		c, ok := byCountry[country]
		if !ok {
			c = &coverage{}
			byCountry[country] = c
		}
		return c
	}
	// counts rows per dictionary ID, then folds them into byCountry
	addIDs := func(dataset string, ids []int32, dct *dict) {
		counts := make([]int, dct.len())
		for _, id := range ids {
			counts[id]++
		}
		for id, n := range counts {
			if n == 0 {
				continue
			}
			c := get(dct.value(int32(id)))
			c.datasets = append(c.datasets, dataset)
			c.rows += n
		}
	}
	addNames := func(dataset string, names []string) {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			c := get(name)
			if !seen[name] {
				c.datasets = append(c.datasets, dataset)
				seen[name] = true
			}
			c.rows++
		}
	}

	if d.Ages != nil {
		addIDs(DatasetAges, d.Ages.CountryIDs, d.Ages.countries)
	}
	if d.Growth != nil {
		addIDs(DatasetGrowth, d.Growth.CountryIDs, d.Growth.countries)
		for i, cid := range d.Growth.CountryIDs {
			c := get(d.Growth.countries.value(cid))
			if c.continent == "" {
				c.continent = d.Growth.continents.value(d.Growth.ContinentIDs[i])
			}
		}
	}
	if d.Scatter != nil {
		addNames(DatasetScatter, d.Scatter.Countries)
	}
	if d.Expenditure != nil {
		addIDs(DatasetExpenditure, d.Expenditure.CountryIDs, d.Expenditure.countries)
	}
	if d.Population != nil {
		addNames(DatasetPopulation, d.Population.Countries)
	}

	out := models.Catalog{
		Countries:   make([]models.CountryCoverage, 0, len(byCountry)),
		Years:       append([]int(nil), models.Years...),
		DefaultYear: models.DefaultYear,
	}
	for name, c := range byCountry {
		if name == "" {
			continue
		}
		out.Countries = append(out.Countries, models.CountryCoverage{
			Country:   name,
			Continent: c.continent,
			Datasets:  c.datasets,
			Rows:      c.rows,
		})
	}
	sort.Slice(out.Countries, func(i, j int) bool { return out.Countries[i].Country < out.Countries[j].Country })
	return out
}
