// Package profile holds the hourly load and production profiles the
// simulator consumes, and helpers to load or synthesize them.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/bessim/core/model"
)

// HoursPerDay matches the simulator's daily resolution.
const HoursPerDay = 24

// Day is one day of hourly load and production values in kW.
type Day struct {
	LoadKW       []float64 `json:"load_kw" yaml:"load_kw"`
	ProductionKW []float64 `json:"production_kw" yaml:"production_kw"`
}

// Validate checks both series are equal length, cover a whole number of
// days and carry only non-negative values.
func (d Day) Validate() error {
	if len(d.LoadKW) == 0 || len(d.LoadKW) != len(d.ProductionKW) {
		return model.InvalidInputError{Field: "profile", Reason: fmt.Sprintf("load and production must be equal non-empty length, got %d and %d", len(d.LoadKW), len(d.ProductionKW))}
	}
	if len(d.LoadKW)%HoursPerDay != 0 {
		return model.InvalidInputError{Field: "profile", Reason: fmt.Sprintf("length must be a multiple of %d, got %d", HoursPerDay, len(d.LoadKW))}
	}
	for h := range d.LoadKW {
		if d.LoadKW[h] < 0 || d.ProductionKW[h] < 0 {
			return model.InvalidInputError{Field: "profile", Reason: "values must be non-negative"}
		}
	}
	return nil
}

// First returns the first day of a possibly multi-day profile.
func (d Day) First() Day {
	if len(d.LoadKW) <= HoursPerDay {
		return d
	}
	return Day{LoadKW: d.LoadKW[:HoursPerDay], ProductionKW: d.ProductionKW[:HoursPerDay]}
}

// Load reads a Day profile from a JSON or YAML file.
func Load(path string) (Day, error) {
	f, err := os.Open(path)
	if err != nil {
		return Day{}, err
	}
	defer f.Close()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return Decode(f, ext)
}

// Decode reads from r to decode a Day profile.
func Decode(r io.Reader, format string) (Day, error) {
	var d Day
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&d); err != nil {
			return d, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return d, err
		}
	default:
		return d, fmt.Errorf("unsupported format: %s", format)
	}
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}
