package server

import (
	"fmt"
	"time"

	"croprec/internal/config"
	"croprec/internal/defaults"

	"golang.org/x/time/rate"
)

// Config holds server configuration
type Config struct {
	// Server identity
	Name    string
	Version string

	// Server configuration
	Address string
	Port    int

	// Directory holding index.html, index.es.html and static assets.
	// Empty disables the web client routes.
	ClientDir string

	// Rate limiting configuration
	RateLimit      rate.Limit // requests per second
	RateLimitBurst int        // burst size

	// Request limits
	MaxBodyBytes int64

	// Timeouts
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// NewConfig returns a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Name:              "croprec",
		Version:           "undefined",
		Port:              defaults.ServerPort,
		RateLimit:         defaults.ServerRateLimit,
		RateLimitBurst:    defaults.ServerRateBurst,
		MaxBodyBytes:      defaults.ServerMaxBodyBytes,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ShutdownTimeout:   defaults.ServerShutdownTimeout,
	}
}

// ConfigFrom maps the server section of the application config.
func ConfigFrom(sc config.ServerConfig) *Config {
	cfg := NewConfig()
	cfg.Address = sc.Address
	cfg.Port = sc.Port
	cfg.ClientDir = sc.ClientDir
	if sc.RateLimit > 0 {
		cfg.RateLimit = rate.Limit(sc.RateLimit)
	}
	if sc.RateBurst > 0 {
		cfg.RateLimitBurst = sc.RateBurst
	}
	if sc.ReadTimeout > 0 {
		cfg.ReadTimeout = sc.ReadTimeout
	}
	if sc.WriteTimeout > 0 {
		cfg.WriteTimeout = sc.WriteTimeout
	}
	if sc.IdleTimeout > 0 {
		cfg.IdleTimeout = sc.IdleTimeout
	}
	if sc.ShutdownTimeout > 0 {
		cfg.ShutdownTimeout = sc.ShutdownTimeout
	}
	return cfg
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Address, c.Port)
}
