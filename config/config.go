package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/bessim/core/finance"
	"github.com/kilianp07/bessim/core/metrics"
	"github.com/kilianp07/bessim/internal/profile"
)

type Config struct {
	Battery    BatteryConfig       `json:"battery"`
	Tariff     TariffConfig        `json:"tariff"`
	Simulation SimulationConfig    `json:"simulation"`
	Optimizer  OptimizerConfig     `json:"optimizer"`
	Finance    finance.Assumptions `json:"finance"`
	Profile    ProfileConfig       `json:"profile"`
	Metrics    metrics.Config      `json:"metrics"`
}

// Load reads the configuration from a YAML or JSON file, then applies
// environment overrides with the BESSIM_ prefix.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("BESSIM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "bessim_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Simulation.SetDefaults()
	cfg.Finance.SetDefaults()
	if err := cfg.Battery.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Tariff.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProfileConfig selects the simulated profiles: a file on disk, or the
// synthetic generator when no path is given.
type ProfileConfig struct {
	Path  string             `json:"path"`
	Synth profile.SynthConfig `json:"synth"`
}

// Day returns the configured day profile, taking the first day of
// multi-day files.
func (c ProfileConfig) Day() (profile.Day, error) {
	if c.Path != "" {
		d, err := profile.Load(c.Path)
		if err != nil {
			return profile.Day{}, err
		}
		return d.First(), nil
	}
	return profile.Synthesize(c.Synth), nil
}

// Year returns an annual profile for the sizing search. File-based setups
// must provide a full year; the synthetic generator builds one.
func (c ProfileConfig) Year() (profile.Day, error) {
	if c.Path != "" {
		d, err := profile.Load(c.Path)
		if err != nil {
			return profile.Day{}, err
		}
		if len(d.LoadKW) < 365*profile.HoursPerDay {
			return profile.Day{}, fmt.Errorf("profile %s is not a full year", c.Path)
		}
		return d, nil
	}
	return profile.SynthesizeYear(c.Synth), nil
}
