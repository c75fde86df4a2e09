package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/GHutch55/anagrams/logger"
)

// ErrInvalidConfig is returned when a setting is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port            string        `short:"p" long:"port" env:"PORT" default:"8000" description:"HTTP listen port"`
	AllowedOrigins  []string      `long:"cors-origin" env:"CORS_ALLOWED_ORIGINS" env-delim:"," default:"*" description:"Allowed CORS origin (repeatable)"`
	RateLimit       int           `long:"rate-limit" env:"RATE_LIMIT" default:"60" description:"Generate requests per client IP per minute, 0 disables"`
	TrustProxy      bool          `long:"trust-proxy" env:"TRUST_PROXY" description:"Take client IPs from X-Forwarded-For and similar headers"`
	MetricsDisabled bool          `long:"no-metrics" env:"METRICS_DISABLED" description:"Do not expose Prometheus metrics on /metrics"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"10s" description:"Graceful shutdown timeout"`
	Version         bool          `short:"v" long:"version" description:"Print build information and exit"`

	logger.Logger `group:"Logging"`

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool `no-flag:"true"`
}

// LoadConfig reads .env if it exists, then parses args with environment
// variables as fallbacks. A --help request is returned as a *flags.Error of
// type flags.ErrHelp.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}

	// Load .env file if it exists
	err := godotenv.Load()
	switch {
	case err == nil:
		cfg.DotEnvLoaded = true
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("load .env: %w", err)
	}

	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %q must be a number between 1 and 65535", ErrInvalidConfig, c.Port)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidConfig)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}

	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}

	return nil
}

// MetricsEnabled reports whether /metrics is served.
func (c *Config) MetricsEnabled() bool {
	return !c.MetricsDisabled
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
