// Package config loads and saves estimation run configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 0.01
	DefaultTotal     = 1000.0
	DefaultRenorm    = 1.0
	DefaultTransient = 10.0
)

type Config struct {
	System     string    `yaml:"system"`
	Integrator string    `yaml:"integrator"`
	K          int       `yaml:"k"`
	Dt         float64   `yaml:"dt"`
	Total      float64   `yaml:"total"`
	Renorm     float64   `yaml:"renorm"`
	Transient  float64   `yaml:"transient"`
	InitState  []float64 `yaml:"init_state"`
	DataDir    string    `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		System:     "lorenz",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Total:      DefaultTotal,
		Renorm:     DefaultRenorm,
		Transient:  DefaultTransient,
		DataDir:    ".tangent",
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
