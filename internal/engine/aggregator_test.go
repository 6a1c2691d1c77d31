package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popdash/internal/models"
)

func TestCatalog(t *testing.T) {
	ds := fixtureDatasets(t)

	cat := ds.Catalog()
	assert.Equal(t, models.Years, cat.Years)
	assert.Equal(t, models.DefaultYear, cat.DefaultYear)

	// sorted by name
	require.Len(t, cat.Countries, 2)
	chad, kenya := cat.Countries[0], cat.Countries[1]
	assert.Equal(t, "Chad", chad.Country)
	assert.Equal(t, "Kenya", kenya.Country)

	assert.Equal(t, "Africa", kenya.Continent)
	assert.Equal(t, []string{DatasetAges, DatasetGrowth, DatasetScatter, DatasetExpenditure, DatasetPopulation}, kenya.Datasets)
	// 3 ages + 4 growth + 1 scatter + 4 expenditure + 1 population
	assert.Equal(t, 13, kenya.Rows)

	assert.NotContains(t, chad.Datasets, DatasetExpenditure)
}

func TestCatalogOnEmptyStore(t *testing.T) {
	cat := (&Datasets{}).Catalog()
	assert.Empty(t, cat.Countries)
	assert.NotEmpty(t, cat.Years)
}
