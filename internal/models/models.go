package models

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// World Bank series codes used by the population-growth dataset.
const (
	SeriesUrbanGrowth = "SP.URB.GROW"
	SeriesRuralGrowth = "SP.RUR.TOTL.ZG"
)

type AgeGroupRecord struct {
	Country  string  `json:"country"`
	Gender   Gender  `json:"gender"`
	Year     int     `json:"year"`
	AgeGroup string  `json:"age_group"`
	Value    float64 `json:"value"`
}

type GrowthRecord struct {
	Country    string  `json:"country"`
	Continent  string  `json:"continent"`
	SeriesCode string  `json:"series_code"`
	Year       int     `json:"year"`
	Value      float64 `json:"value"`
}

type ExpenditureRecord struct {
	Country    string  `json:"country"`
	SeriesCode string  `json:"series_code"`
	SeriesName string  `json:"series_name"`
	Year       int     `json:"year"`
	Value      float64 `json:"value"`
}

// ScatterPoint is one country's (life expectancy, health expenditure) pair
// for a single year.
type ScatterPoint struct {
	Country           string  `json:"country"`
	LifeExpectancy    float64 `json:"life_expectancy"`
	HealthExpenditure float64 `json:"health_expenditure"`
}

type PopulationRecord struct {
	Country string          `json:"country"`
	ByYear  map[int]float64 `json:"by_year"`
}

type CountryCoverage struct {
	Country   string   `json:"country"`
	Continent string   `json:"continent,omitempty"`
	Datasets  []string `json:"datasets"`
	Rows      int      `json:"rows"`
}

type Catalog struct {
	Countries   []CountryCoverage `json:"countries"`
	Years       []int             `json:"years"`
	DefaultYear int               `json:"default_year"`
}
