package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:3000"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
}

type SessionConfig struct {
	Name          string `env:"SESSION_NAME" envDefault:"nrc_session"`
	Secret        string `env:"SESSION_SECRET"`
	MaxAge        int    `env:"SESSION_MAX_AGE" envDefault:"86400"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`
}

type DashboardConfig struct {
	// DepartureTimezone is the zone a datetime-local form value is read in.
	DepartureTimezone string        `env:"DEPARTURE_TIMEZONE" envDefault:"Africa/Lagos"`
	Currency          string        `env:"CURRENCY" envDefault:"NGN"`
	ViewStateTTL      time.Duration `env:"VIEW_STATE_TTL" envDefault:"30m"`
}

type ObservabilityConfig struct {
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"nrc-ticketing"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"otel-collector:4318"`
	MetricsAddr  string `env:"METRICS_ADDR" envDefault:":9092"`
	PprofAddr    string `env:"PPROF_ADDR" envDefault:"localhost:6060"`
}

type Config struct {
	ServerPort    string `env:"SERVER_PORT" envDefault:"8091"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	API           APIConfig
	Session       SessionConfig
	Dashboard     DashboardConfig
	Observability ObservabilityConfig

	location *time.Location
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	loc, err := time.LoadLocation(cfg.Dashboard.DepartureTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DEPARTURE_TIMEZONE %q: %w", cfg.Dashboard.DepartureTimezone, err)
	}
	cfg.location = loc

	return cfg, nil
}

// DepartureLocation returns the zone departure times are entered in.
// A zero Config falls back to UTC.
func (c *Config) DepartureLocation() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
