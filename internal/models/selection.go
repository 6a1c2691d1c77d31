package models

import (
	"fmt"
	"strconv"
)

// Years is the closed set of years every dataset is published for.
var Years = []int{2000, 2005, 2010, 2015, 2020, 2021, 2022}

const DefaultYear = 2000

func ValidYear(year int) bool {
	for _, y := range Years {
		if y == year {
			return true
		}
	}
	return false
}

// ParseYear accepts the dropdown's string value.
func ParseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("year %q is not a number: %w", s, err)
	}
	return y, nil
}

// Selection is the (country, year) pair every chart is filtered by.
// An empty Country means no country has been chosen yet.
type Selection struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
}

func (s Selection) HasCountry() bool { return s.Country != "" }

func (s Selection) WithCountry(country string) Selection {
	s.Country = country
	return s
}

func (s Selection) WithYear(year int) Selection {
	s.Year = year
	return s
}

func DefaultSelection() Selection {
	return Selection{Year: DefaultYear}
}
