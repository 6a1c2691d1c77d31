package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2000, cfg.Selection.DefaultYear)
	assert.Equal(t, filepath.Join("data", "country_age.csv"), cfg.Files().Ages)
	assert.Equal(t, filepath.Join("data", "geojson.json"), cfg.GeoJSONPath())
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
data:
  dir: /srv/data
  ages: /elsewhere/ages.csv
charts:
  width: 800
logging:
  level: debug
selection:
  default_year: 2015
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 20.0, cfg.Server.RateLimit, "untouched keys keep defaults")
	assert.Equal(t, 800, cfg.Charts.Width)
	assert.Equal(t, 400, cfg.Charts.Height)
	assert.Equal(t, 2015, cfg.Selection.DefaultYear)

	files := cfg.Files()
	assert.Equal(t, "/elsewhere/ages.csv", files.Ages)
	assert.Equal(t, filepath.Join("/srv/data", "expenditure.csv"), files.Expenditure)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POPDASH_ADDR", ":7000")
	t.Setenv("POPDASH_LOG_LEVEL", "warn")
	t.Setenv("POPDASH_LOG_JSON", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)

	t.Setenv("POPDASH_RATE_LIMIT", "fast")
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Selection.DefaultYear = 1999
	assert.ErrorContains(t, cfg.Validate(), "default_year")

	cfg = Default()
	cfg.Charts.Height = 0
	assert.ErrorContains(t, cfg.Validate(), "size")

	cfg = Default()
	cfg.Logging.Level = "loud"
	assert.ErrorContains(t, cfg.Validate(), "logging.level")
}
