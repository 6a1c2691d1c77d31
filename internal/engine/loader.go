package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/csv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"popdash/internal/models"
)

// Dataset names, used in logs and errors.
const (
	DatasetAges        = "ages"
	DatasetGrowth      = "growth"
	DatasetScatter     = "scatter"
	DatasetExpenditure = "expenditure"
	DatasetPopulation  = "population"
)

// Scatter column prefixes: LE_<year> and HE_<year>.
const (
	LifeExpectancyPrefix    = "LE"
	HealthExpenditurePrefix = "HE"
)

const chunkRows = 4096

var (
	ageColumns         = []string{"Country_Name", "Gender", "Year", "Age_Group", "Value"}
	growthColumns      = []string{"Country_Name", "continent", "Series_Code", "Year", "Growth_Value"}
	expenditureColumns = []string{"Country_Name", "Series_Code", "Series_Name", "Year", "Value"}
)

// ScatterField names the scatter column holding prefix's value for year.
func ScatterField(prefix string, year int) string {
	return prefix + "_" + strconv.Itoa(year)
}

func scatterColumns() []string {
	cols := []string{"Country"}
	for _, y := range models.Years {
		cols = append(cols, ScatterField(LifeExpectancyPrefix, y), ScatterField(HealthExpenditurePrefix, y))
	}
	return cols
}

func populationColumns() []string {
	cols := []string{"Country"}
	for _, y := range models.Years {
		cols = append(cols, strconv.Itoa(y))
	}
	return cols
}

// --- 1. CELL PARSERS ---

// fastInt parses an unsigned decimal like "2010". ok is false for anything else.
func fastInt(s string) (int32, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}
	var n int32
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int32(c-'0')
	}
	return n, true
}

// parseYear reads "2010" and "2010.0". Unparseable years read as 0, which
// never matches a selection.
func parseYear(s string) int32 {
	s = strings.TrimSpace(s)
	if n, ok := fastInt(s); ok {
		return n
	}
	f := parseMeasure(s)
	if f != math.Trunc(f) || f > math.MaxInt32 || f < 0 {
		return 0
	}
	return int32(f)
}

// parseMeasure coerces a cell to a finite float. Blank, malformed, NaN and
// infinite cells read as 0 so the row is kept.
func parseMeasure(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// --- 2. CSV READER ---

// readColumns streams the named columns of a CSV through fn, one row at a
// time, in file order. Extra columns are ignored; a missing column fails fast.
func readColumns(r io.Reader, dataset string, cols []string, fn func(row []string)) error {
	types := make(map[string]arrow.DataType, len(cols))
	for _, c := range cols {
		types[c] = arrow.BinaryTypes.String
	}

	rdr := csv.NewInferringReader(r,
		csv.WithHeader(true),
		csv.WithIncludeColumns(cols),
		csv.WithColumnTypes(types),
		csv.WithChunk(chunkRows),
	)
	defer rdr.Release()

	row := make([]string, len(cols))
	strs := make([]*array.String, len(cols))
	for rdr.Next() {
		rec := rdr.Record()
		for i := range cols {
			col, ok := rec.Column(i).(*array.String)
			if !ok {
				return fmt.Errorf("column %s decoded as %s, want utf8", cols[i], rec.Column(i).DataType())
			}
			strs[i] = col
		}
		n := int(rec.NumRows())
		for j := 0; j < n; j++ {
			for i, col := range strs {
				if col.IsNull(j) {
					row[i] = ""
				} else {
					row[i] = col.Value(j)
				}
			}
			fn(row)
		}
	}

	if err := rdr.Err(); err != nil {
		// a required column missing from the header; a short or long data
		// row surfaces as a csv.ParseError instead
		if errors.Is(err, csv.ErrMismatchFields) && strings.Contains(err.Error(), "in included columns") {
			return &SchemaError{Dataset: dataset, Required: cols, Err: err}
		}
		return fmt.Errorf("%s dataset: malformed row: %w", dataset, err)
	}
	return nil
}

// --- 3. PER-DATASET LOADERS ---

func LoadAges(r io.Reader) (*AgeTable, error) {
	t := newAgeTable()
	err := readColumns(r, DatasetAges, ageColumns, func(row []string) {
		t.CountryIDs = append(t.CountryIDs, t.countries.intern(row[0]))
		t.Genders = append(t.Genders, models.Gender(strings.Clone(row[1])))
		t.Years = append(t.Years, parseYear(row[2]))
		t.AgeGroups = append(t.AgeGroups, strings.Clone(row[3]))
		t.Values = append(t.Values, parseMeasure(row[4]))
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func LoadGrowth(r io.Reader) (*GrowthTable, error) {
	t := newGrowthTable()
	err := readColumns(r, DatasetGrowth, growthColumns, func(row []string) {
		t.CountryIDs = append(t.CountryIDs, t.countries.intern(row[0]))
		t.ContinentIDs = append(t.ContinentIDs, t.continents.intern(row[1]))
		t.SeriesCodes = append(t.SeriesCodes, strings.Clone(row[2]))
		t.Years = append(t.Years, parseYear(row[3]))
		t.Values = append(t.Values, parseMeasure(row[4]))
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func LoadExpenditure(r io.Reader) (*ExpenditureTable, error) {
	t := newExpenditureTable()
	err := readColumns(r, DatasetExpenditure, expenditureColumns, func(row []string) {
		t.CountryIDs = append(t.CountryIDs, t.countries.intern(row[0]))
		t.SeriesCodes = append(t.SeriesCodes, strings.Clone(row[1]))
		t.SeriesNames = append(t.SeriesNames, strings.Clone(row[2]))
		t.Years = append(t.Years, parseYear(row[3]))
		t.Values = append(t.Values, parseMeasure(row[4]))
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func LoadScatter(r io.Reader) (*ScatterTable, error) {
	cols := scatterColumns()
	t := &ScatterTable{Fields: make(map[string][]float64, len(cols)-1)}
	err := readColumns(r, DatasetScatter, cols, func(row []string) {
		t.Countries = append(t.Countries, strings.Clone(row[0]))
		for i := 1; i < len(cols); i++ {
			t.Fields[cols[i]] = append(t.Fields[cols[i]], parseMeasure(row[i]))
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func LoadPopulation(r io.Reader) (*PopulationTable, error) {
	t := &PopulationTable{ByYear: make(map[int][]float64, len(models.Years))}
	err := readColumns(r, DatasetPopulation, populationColumns(), func(row []string) {
		t.Countries = append(t.Countries, strings.Clone(row[0]))
		for i, y := range models.Years {
			t.ByYear[y] = append(t.ByYear[y], parseMeasure(row[i+1]))
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// --- 4. MAIN LOADER ---

// Files holds the path of every CSV the dashboard needs.
type Files struct {
	Ages        string
	Growth      string
	Scatter     string
	Expenditure string
	Population  string
}

type table interface{ Len() int }

func loadFile[T table](ctx context.Context, logger *zap.Logger, dataset, path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return zero, &LoadError{Dataset: dataset, Path: path, Err: err}
	}
	defer f.Close()

	t, err := parse(f)
	if err != nil {
		return zero, &LoadError{Dataset: dataset, Path: path, Err: err}
	}

	logger.Info("dataset loaded",
		zap.String("dataset", dataset),
		zap.String("path", path),
		zap.Int("rows", t.Len()),
		zap.Duration("took", time.Since(start)))
	return t, nil
}

// LoadAll reads every dataset concurrently. The first failure cancels the
// rest; a partially loaded store is never returned.
func LoadAll(ctx context.Context, files Files, logger *zap.Logger) (*Datasets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	ds := &Datasets{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ds.Ages, err = loadFile(ctx, logger, DatasetAges, files.Ages, LoadAges)
		return err
	})
	g.Go(func() (err error) {
		ds.Growth, err = loadFile(ctx, logger, DatasetGrowth, files.Growth, LoadGrowth)
		return err
	})
	g.Go(func() (err error) {
		ds.Scatter, err = loadFile(ctx, logger, DatasetScatter, files.Scatter, LoadScatter)
		return err
	})
	g.Go(func() (err error) {
		ds.Expenditure, err = loadFile(ctx, logger, DatasetExpenditure, files.Expenditure, LoadExpenditure)
		return err
	})
	g.Go(func() (err error) {
		ds.Population, err = loadFile(ctx, logger, DatasetPopulation, files.Population, LoadPopulation)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("all datasets loaded", zap.Duration("took", time.Since(start)))
	return ds, nil
}
