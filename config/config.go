// Package config provides configuration loading and access for the
// simulation driver.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the full simulation setup: the island map, the seed, the
// parameter overrides and the initial population.
type Config struct {
	Seed  int64  `yaml:"seed"`
	Years int    `yaml:"years"`
	Map   string `yaml:"map"`

	Species   SpeciesConfig                 `yaml:"species"`
	Landscape map[string]map[string]float64 `yaml:"landscape"`

	Population []PopulationConfig `yaml:"population"`

	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SpeciesConfig holds per-species parameter overrides, keyed by the
// canonical parameter names. Empty maps mean built-in defaults.
type SpeciesConfig struct {
	Herbivore map[string]float64 `yaml:"herbivore"`
	Carnivore map[string]float64 `yaml:"carnivore"`
}

// PopulationConfig places a group of animals at one map coordinate.
type PopulationConfig struct {
	Loc     []int          `yaml:"loc"` // [row, col], 1-based
	Animals []AnimalConfig `yaml:"animals"`
}

// AnimalConfig describes one batch of identical animals. Count defaults to
// one; Weight 0 means "sample a birth weight".
type AnimalConfig struct {
	Species string  `yaml:"species"`
	Count   int     `yaml:"count"`
	Age     int     `yaml:"age"`
	Weight  float64 `yaml:"weight"`
}

// TelemetryConfig holds output settings for the driver.
type TelemetryConfig struct {
	LogStats  bool   `yaml:"log_stats"`
	OutputDir string `yaml:"output_dir"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// WriteYAML saves the configuration to a file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
