// Package config holds generation settings and their YAML file form.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config controls one paper generation run.
//
// A zero Seed means "pick one": the CLI fills it from entropy and reports it
// so runs can be reproduced later.
type Config struct {
	Seed        int64    `yaml:"seed"`
	Authors     []string `yaml:"authors"`
	Institution string   `yaml:"institution"`
	PrettyPrint bool     `yaml:"pretty_print"`
	Verbosity   int      `yaml:"verbosity"`
	DataDir     string   `yaml:"data_dir"`
	OutputDir   string   `yaml:"output_dir"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Authors:     []string{"John Doe"},
		Institution: "MIT CSAIL",
		PrettyPrint: true,
		DataDir:     "data",
		OutputDir:   "output",
	}
}

// LoadFile reads a YAML config, layering it over Default. Unset fields keep
// their defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot drive a generation run.
func (c Config) Validate() error {
	if len(c.Authors) == 0 {
		return fmt.Errorf("config: at least one author is required")
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("config: verbosity must be non-negative")
	}
	return nil
}

// RulesFile is the main grammar file under DataDir.
func (c Config) RulesFile() string {
	return filepath.Join(c.DataDir, "rules.txt")
}

// SystemNamesFile is the optional system-name dictionary under DataDir.
func (c Config) SystemNamesFile() string {
	return filepath.Join(c.DataDir, "system_names.txt")
}

// GraphvizRulesFile is the diagram-label grammar under DataDir.
func (c Config) GraphvizRulesFile() string {
	return filepath.Join(c.DataDir, "graphviz.txt")
}
