// Package config loads croprec settings from an optional YAML file and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"croprec/internal/defaults"
)

// Environment overrides, applied after the YAML file.
const (
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvDataset         = "CROPREC_DATASET"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT_SECONDS"
)

type Config struct {
	Dataset  string       `yaml:"dataset"`
	LogLevel string       `yaml:"log_level"`
	Model    ModelConfig  `yaml:"model"`
	Server   ServerConfig `yaml:"server"`
	Tuning   TuningConfig `yaml:"tuning"`
}

type ModelConfig struct {
	K        int     `yaml:"k"`
	Distance string  `yaml:"distance"`
	Scaling  string  `yaml:"scaling"`
	TestSize float64 `yaml:"test_size"`
	Seed     int64   `yaml:"seed"`
	TopN     int     `yaml:"top_n"`
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	Port            int           `yaml:"port"`
	ClientDir       string        `yaml:"client_dir"`
	RateLimit       float64       `yaml:"rate_limit"`
	RateBurst       int           `yaml:"rate_burst"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type TuningConfig struct {
	K         []int    `yaml:"k"`
	Distances []string `yaml:"distances"`
	Folds     int      `yaml:"folds"`
	Workers   int      `yaml:"workers"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Dataset:  defaults.DatasetPath,
		LogLevel: "info",
		Model: ModelConfig{
			K:        defaults.Neighbors,
			Distance: defaults.Distance,
			Scaling:  defaults.Scaling,
			TestSize: defaults.TestSize,
			Seed:     defaults.Seed,
			TopN:     defaults.TopN,
		},
		Server: ServerConfig{
			Port:            defaults.ServerPort,
			RateLimit:       defaults.ServerRateLimit,
			RateBurst:       defaults.ServerRateBurst,
			ReadTimeout:     defaults.ServerReadTimeout,
			WriteTimeout:    defaults.ServerWriteTimeout,
			IdleTimeout:     defaults.ServerIdleTimeout,
			ShutdownTimeout: defaults.ServerShutdownTimeout,
		},
		Tuning: TuningConfig{
			Distances: []string{defaults.Distance},
			Folds:     defaults.TuneFolds,
			Workers:   defaults.TuneWorkers,
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies the
// environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDataset); v != "" {
		c.Dataset = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	// Allow the shutdown timeout to match the orchestrator's grace period
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			c.Server.ShutdownTimeout = time.Duration(seconds) * time.Second
		}
	}
}

// Validate rejects settings the trainer or server cannot run with.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("dataset path is required")
	}
	if c.Model.K <= 0 {
		return fmt.Errorf("k must be positive, got %d", c.Model.K)
	}
	if !IsValidDistance(c.Model.Distance) {
		return fmt.Errorf("unknown distance: %s", c.Model.Distance)
	}
	if c.Model.Scaling != "standard" && c.Model.Scaling != "minmax" && c.Model.Scaling != "none" {
		return fmt.Errorf("unknown scaling: %s", c.Model.Scaling)
	}
	if c.Model.TestSize <= 0 || c.Model.TestSize >= 1 {
		return fmt.Errorf("test size must be between 0 and 1, got %g", c.Model.TestSize)
	}
	if c.Model.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.Model.TopN)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return fmt.Errorf("rate limit and burst must be positive")
	}
	for _, k := range c.Tuning.K {
		if k <= 0 {
			return fmt.Errorf("tuning k values must be positive, got %d", k)
		}
	}
	for _, d := range c.Tuning.Distances {
		if !IsValidDistance(d) {
			return fmt.Errorf("unknown tuning distance: %s", d)
		}
	}
	if c.Tuning.Folds < 2 {
		return fmt.Errorf("tuning folds must be at least 2, got %d", c.Tuning.Folds)
	}
	return nil
}

// TuningK returns the configured k candidates, or 1..TuneMaxK.
func (c *Config) TuningK() []int {
	if len(c.Tuning.K) > 0 {
		return c.Tuning.K
	}
	ks := make([]int, defaults.TuneMaxK)
	for i := range ks {
		ks[i] = i + 1
	}
	return ks
}

func IsValidDistance(d string) bool {
	return d == "euclidean" || d == "manhattan"
}
