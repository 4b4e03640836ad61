package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOptimizer  = "compass"
	DefaultMaxIter    = 500
	DefaultTol        = 1e-6
	DefaultGridPoints = 10
)

// Config describes one run or optimization of a registered model.
type Config struct {
	Model       string             `yaml:"model"`
	Optimizer   string             `yaml:"optimizer"`
	MaxIter     int                `yaml:"max_iter"`
	Tol         float64            `yaml:"tol"`
	GridPoints  int                `yaml:"grid_points"`
	Overrides   map[string]float64 `yaml:"overrides"`
	Objective   string             `yaml:"objective"`
	DesignVars  []DesignVar        `yaml:"design_vars"`
	Constraints []Constraint       `yaml:"constraints"`
}

type DesignVar struct {
	Name   string  `yaml:"name"`
	Lower  float64 `yaml:"lower"`
	Upper  float64 `yaml:"upper"`
	Scaler float64 `yaml:"scaler"`
}

type Constraint struct {
	Name  string  `yaml:"name"`
	Sense string  `yaml:"sense"`
	Bound float64 `yaml:"bound"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "lev-opt",
		Optimizer:  DefaultOptimizer,
		MaxIter:    DefaultMaxIter,
		Tol:        DefaultTol,
		GridPoints: DefaultGridPoints,
		Overrides:  make(map[string]float64),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
