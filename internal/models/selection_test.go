package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidYear(t *testing.T) {
	for _, y := range Years {
		assert.True(t, ValidYear(y), "year %d", y)
	}
	assert.False(t, ValidYear(1999))
	assert.False(t, ValidYear(2001))
	assert.False(t, ValidYear(0))
}

func TestParseYear(t *testing.T) {
	y, err := ParseYear("2015")
	require.NoError(t, err)
	assert.Equal(t, 2015, y)

	_, err = ParseYear("twenty")
	assert.Error(t, err)
}

func TestSelectionUpdates(t *testing.T) {
	sel := DefaultSelection()
	assert.False(t, sel.HasCountry())
	assert.Equal(t, DefaultYear, sel.Year)

	clicked := sel.WithCountry("Kenya")
	assert.Equal(t, Selection{Country: "Kenya", Year: 2000}, clicked)
	assert.Equal(t, Selection{Country: "Kenya", Year: 2010}, clicked.WithYear(2010))
	// value receiver: the original is untouched
	assert.False(t, sel.HasCountry())
}
