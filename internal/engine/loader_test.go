package engine

import (
	"context"
	stdcsv "encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const agesCSV = `Country_Name,Gender,Year,Age_Group,Value
Kenya,male,2010,0-14,12.5
Kenya,female,2010,0-14,14.2
Kenya,male,2015,0-14,11.9
Chad,female,2010,0-14,n/a
`

const growthCSV = `Country_Name,continent,Series_Code,Year,Growth_Value,Extra
Kenya,Africa,SP.URB.GROW,2000,4.3,x
Kenya,Africa,SP.RUR.TOTL.ZG,2000,2.1,x
Kenya,Africa,SP.URB.GROW,2005,4.1,x
Kenya,Africa,SP.RUR.TOTL.ZG,2005,-0.5,x
Chad,Africa,SP.URB.GROW,2000,3.0,x
`

const expenditureCSV = `Country_Name,Series_Code,Series_Name,Year,Value
Kenya,SH.XPD.GHED.CH.ZS,Domestic general government,2010,0
Kenya,SH.XPD.PVTD.CH.ZS,Domestic private,2010,0
Kenya,SH.XPD.EHEX.CH.ZS,External,2010,0
Kenya,SH.XPD.GHED.CH.ZS,Domestic general government,2015,38.2
`

func scatterCSV() string {
	header := "Country," + strings.Join(scatterColumns()[1:], ",")
	row := func(country string, le, he string) string {
		cells := []string{country}
		for range scatterColumns()[1:] {
			cells = append(cells, "")
		}
		// LE_2010 / HE_2010 sit at positions 5 and 6
		cells[5], cells[6] = le, he
		return strings.Join(cells, ",")
	}
	return strings.Join([]string{header, row("Kenya", "61.2", "42.0"), row("Chad", "50.1", "NaN")}, "\n") + "\n"
}

func populationCSV() string {
	return "Country,2000,2005,2010,2015,2020,2021,2022\n" +
		"Kenya,31000000,35000000,41000000,47000000,51000000,52000000,53000000\n" +
		"Chad,8000000,,11000000,14000000,16000000,17000000,17500000\n"
}

func TestLoadAges(t *testing.T) {
	table, err := LoadAges(strings.NewReader(agesCSV))
	require.NoError(t, err)

	require.Equal(t, 4, table.Len())
	assert.Equal(t, 12.5, table.Values[0])
	assert.Equal(t, int32(2010), table.Years[0])
	// "n/a" is kept and reads as zero
	assert.Equal(t, 0.0, table.Values[3])

	// Dictionary checks
	assert.Equal(t, 2, table.countries.len())
	assert.Equal(t, table.CountryIDs[0], table.CountryIDs[2])
}

func TestLoadGrowthIgnoresExtraColumns(t *testing.T) {
	table, err := LoadGrowth(strings.NewReader(growthCSV))
	require.NoError(t, err)
	require.Equal(t, 5, table.Len())
	assert.Equal(t, -0.5, table.Values[3])
	assert.Equal(t, "Africa", table.row(0).Continent)
}

func TestLoadMissingColumnIsSchemaError(t *testing.T) {
	bad := "Country_Name,Gender,Year,Value\nKenya,male,2010,1\n"
	_, err := LoadAges(strings.NewReader(bad))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %T: %v", err, err)
	assert.Equal(t, DatasetAges, schemaErr.Dataset)
	assert.Contains(t, err.Error(), "Age_Group")
}

func TestLoadRaggedRowIsNotSchemaError(t *testing.T) {
	ragged := "Country_Name,Gender,Year,Age_Group,Value\nKenya,male,2010,0-14,1\nKenya,male,2010\n"
	_, err := LoadAges(strings.NewReader(ragged))
	require.Error(t, err)

	var schemaErr *SchemaError
	assert.False(t, errors.As(err, &schemaErr), "header is fine, got %v", err)
	assert.True(t, errors.Is(err, stdcsv.ErrFieldCount), "got %v", err)
	assert.Contains(t, err.Error(), DatasetAges)
}

func TestLoadScatter(t *testing.T) {
	table, err := LoadScatter(strings.NewReader(scatterCSV()))
	require.NoError(t, err)

	require.Equal(t, []string{"Kenya", "Chad"}, table.Countries)
	assert.Equal(t, []float64{61.2, 50.1}, table.Fields["LE_2010"])
	// NaN coerces to zero; blank cells too
	assert.Equal(t, []float64{42.0, 0}, table.Fields["HE_2010"])
	assert.Equal(t, []float64{0, 0}, table.Fields["LE_2022"])
}

func TestLoadPopulation(t *testing.T) {
	table, err := LoadPopulation(strings.NewReader(populationCSV()))
	require.NoError(t, err)

	recs := table.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, 41000000.0, recs[0].ByYear[2010])
	assert.Equal(t, 0.0, recs[1].ByYear[2005])
}

func TestFastHelpers(t *testing.T) {
	n, ok := fastInt("2010")
	assert.True(t, ok)
	assert.Equal(t, int32(2010), n)

	_, ok = fastInt("20x0")
	assert.False(t, ok)

	assert.Equal(t, int32(2015), parseYear("2015.0"))
	assert.Equal(t, int32(0), parseYear("soon"))
	assert.Equal(t, int32(0), parseYear("2015.5"))

	assert.Equal(t, 123.45, parseMeasure(" 123.45 "))
	assert.Equal(t, -1.5, parseMeasure("-1.5"))
	assert.Equal(t, 0.0, parseMeasure(""))
	assert.Equal(t, 0.0, parseMeasure("Inf"))
	assert.Equal(t, 0.0, parseMeasure(".."))
}

func writeFixtures(t *testing.T) Files {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}
	return Files{
		Ages:        write("country_age.csv", agesCSV),
		Growth:      write("Population_growth_file.csv", growthCSV),
		Scatter:     write("Scatter_Data_Final.csv", scatterCSV()),
		Expenditure: write("expenditure.csv", expenditureCSV),
		Population:  write("Choropleth_Population_1.csv", populationCSV()),
	}
}

func TestLoadAll(t *testing.T) {
	ds, err := LoadAll(context.Background(), writeFixtures(t), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Ages.Len())
	assert.Equal(t, 5, ds.Growth.Len())
	assert.Equal(t, 2, ds.Scatter.Len())
	assert.Equal(t, 4, ds.Expenditure.Len())
	assert.Equal(t, 2, ds.Population.Len())
}

func TestLoadAllFailsOnMissingFile(t *testing.T) {
	files := writeFixtures(t)
	files.Expenditure = filepath.Join(t.TempDir(), "missing.csv")

	ds, err := LoadAll(context.Background(), files, nil)
	require.Error(t, err)
	assert.Nil(t, ds)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, DatasetExpenditure, loadErr.Dataset)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
