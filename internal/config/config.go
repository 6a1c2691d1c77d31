package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"popdash/internal/engine"
	"popdash/internal/models"
	"popdash/internal/views"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Charts    views.Size      `yaml:"charts"`
	Logging   LoggingConfig   `yaml:"logging"`
	Selection SelectionConfig `yaml:"selection"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// RateLimit is requests per second per client IP; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
}

// DataConfig locates the input files. Relative file names resolve against Dir.
type DataConfig struct {
	Dir         string `yaml:"dir"`
	Ages        string `yaml:"ages"`
	Growth      string `yaml:"growth"`
	Scatter     string `yaml:"scatter"`
	Expenditure string `yaml:"expenditure"`
	Population  string `yaml:"population"`
	GeoJSON     string `yaml:"geojson"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

type SelectionConfig struct {
	DefaultYear int `yaml:"default_year"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 20,
		},
		Data: DataConfig{
			Dir:         "data",
			Ages:        "country_age.csv",
			Growth:      "Population_growth_file.csv",
			Scatter:     "Scatter_Data_Final.csv",
			Expenditure: "expenditure.csv",
			Population:  "Choropleth_Population_1.csv",
			GeoJSON:     "geojson.json",
		},
		Charts: views.DefaultSize,
		Logging: LoggingConfig{
			Level: "info",
			JSON:  true,
		},
		Selection: SelectionConfig{
			DefaultYear: models.DefaultYear,
		},
	}
}

// Load reads path over the defaults, then applies POPDASH_* environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("POPDASH_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("POPDASH_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("POPDASH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("POPDASH_LOG_JSON"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("POPDASH_LOG_JSON: %w", err)
		}
		c.Logging.JSON = b
	}
	if v := os.Getenv("POPDASH_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("POPDASH_RATE_LIMIT: %w", err)
		}
		c.Server.RateLimit = f
	}
	return nil
}

var validLevels = []string{"debug", "info", "warn", "error"}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is empty")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must not be negative, got %v", c.Server.RateLimit)
	}
	if !models.ValidYear(c.Selection.DefaultYear) {
		return fmt.Errorf("selection.default_year %d is not one of %v", c.Selection.DefaultYear, models.Years)
	}
	if c.Charts.Width <= 0 || c.Charts.Height <= 0 {
		return fmt.Errorf("charts size must be positive, got %dx%d", c.Charts.Width, c.Charts.Height)
	}
	for _, l := range validLevels {
		if c.Logging.Level == l {
			return nil
		}
	}
	return fmt.Errorf("invalid logging.level: %s (valid: %v)", c.Logging.Level, validLevels)
}

func (c *Config) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// Files resolves the CSV paths the engine loads.
func (c *Config) Files() engine.Files {
	return engine.Files{
		Ages:        c.path(c.Data.Ages),
		Growth:      c.path(c.Data.Growth),
		Scatter:     c.path(c.Data.Scatter),
		Expenditure: c.path(c.Data.Expenditure),
		Population:  c.path(c.Data.Population),
	}
}

func (c *Config) GeoJSONPath() string { return c.path(c.Data.GeoJSON) }
