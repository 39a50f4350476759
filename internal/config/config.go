package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "SALESDASH_"

// Config holds the server settings.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	DataPath string `env:"DATA" envDefault:"Chocolate_Sales_update.csv"`

	// SourceDriver selects a database/sql driver ("sqlite3", "postgres",
	// "clickhouse") instead of the CSV file. Empty means CSV.
	SourceDriver string `env:"SOURCE_DRIVER"`
	SourceDSN    string `env:"SOURCE_DSN"`
	SourceTable  string `env:"SOURCE_TABLE" envDefault:"sales"`

	LogLevel      string  `env:"LOG_LEVEL" envDefault:"info"`
	HistogramBins int     `env:"HISTOGRAM_BINS" envDefault:"20"`
	TopN          int     `env:"TOP_N" envDefault:"10"`
	RateLimit     float64 `env:"RATE_LIMIT" envDefault:"20"`
}

// Load reads SALESDASH_* variables from environ (the process environment when
// nil), then lets command-line flags in args override them.
func Load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      envPrefix,
		Environment: environ,
	}); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	fs := flag.NewFlagSet("salesdash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "path to the sales CSV file")
	fs.StringVar(&cfg.SourceDriver, "source-driver", cfg.SourceDriver, "database/sql driver to load from instead of CSV")
	fs.StringVar(&cfg.SourceDSN, "source-dsn", cfg.SourceDSN, "database DSN for -source-driver")
	fs.StringVar(&cfg.SourceTable, "source-table", cfg.SourceTable, "table holding the sales rows")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.IntVar(&cfg.HistogramBins, "histogram-bins", cfg.HistogramBins, "bins per histogram")
	fs.IntVar(&cfg.TopN, "top-n", cfg.TopN, "groups kept in product and salesperson rankings")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "requests per second per client, 0 disables")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	switch c.SourceDriver {
	case "":
		if c.DataPath == "" {
			return errors.New("data path is required")
		}
	case "sqlite3", "postgres", "clickhouse":
		if c.SourceDSN == "" {
			return fmt.Errorf("source-dsn is required for driver %q", c.SourceDriver)
		}
		if c.SourceTable == "" {
			return errors.New("source-table is required")
		}
	default:
		return fmt.Errorf("unsupported source driver %q", c.SourceDriver)
	}
	if c.HistogramBins <= 0 {
		return fmt.Errorf("histogram-bins must be positive, got %d", c.HistogramBins)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top-n must not be negative, got %d", c.TopN)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate-limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}
