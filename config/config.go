// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Transport names accepted by the TRANSPORT variable.
const (
	TransportHTTP      = "http"
	TransportStdio     = "stdio"
	TransportWebSocket = "ws"
)

// Config holds all runtime configuration. Everything is read from the
// environment at startup; nothing else in the process consults ambient
// globals.
type Config struct {
	// Host is the interface to bind. Defaults to all interfaces.
	Host string `env:"HOST" envDefault:"0.0.0.0"`

	// Port is the listening port for the HTTP and WebSocket transports.
	Port int `env:"PORT" envDefault:"8000"`

	// Transport selects how requests arrive: http, stdio or ws.
	Transport string `env:"TRANSPORT" envDefault:"http"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// RateLimit is the maximum requests per second; 0 disables limiting.
	RateLimit int `env:"RATE_LIMIT" envDefault:"0"`
	// RateBurst is the burst allowance; defaults to RateLimit when 0.
	RateBurst int `env:"RATE_BURST" envDefault:"0"`

	// OTelEnabled turns on tracing and metrics middleware.
	OTelEnabled bool `env:"OTEL_ENABLED" envDefault:"false"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Transport {
	case TransportHTTP, TransportStdio, TransportWebSocket:
	default:
		return fmt.Errorf("unknown transport %q (want http, stdio or ws)", c.Transport)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.RateBurst == 0 {
		c.RateBurst = c.RateLimit
	}
	return nil
}

// Addr returns the host:port the network transports bind to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
