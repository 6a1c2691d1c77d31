package engine

import (
	"fmt"
	"strings"

	"popdash/internal/models"
)

// LoadError is fatal: no chart is rendered from a partially loaded store.
type LoadError struct {
	Dataset string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s dataset from %s: %v", e.Dataset, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports a CSV whose header does not carry the required columns.
type SchemaError struct {
	Dataset  string
	Required []string
	Err      error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s dataset does not match schema (want columns %s): %v",
		e.Dataset, strings.Join(e.Required, ", "), e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ConfigurationError is returned for a year outside models.Years.
type ConfigurationError struct {
	Year int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("year %d is not one of the published years %v", e.Year, models.Years)
}
