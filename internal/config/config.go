// Package config loads the YAML configuration, applies environment variable
// overrides and fills in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"StockBoard/internal/model"
)

// Benchmark is the YAML shape of one sector benchmark; PE/PB ranges are
// two-element [min, max] lists in the file.
type Benchmark struct {
	Name            string     `yaml:"name"`
	GrahamThreshold float64    `yaml:"graham_threshold"`
	PERange         [2]float64 `yaml:"pe_range"`
	PBRange         [2]float64 `yaml:"pb_range"`
	YieldMin        float64    `yaml:"yield_min"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Fetch struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
		MaxAttempts    int `yaml:"max_attempts"`
		RetryDelayMS   int `yaml:"retry_delay_ms"`
	} `yaml:"fetch"`
	Pacing struct {
		InstitutionalMS int `yaml:"institutional_ms"`
		TechnicalMS     int `yaml:"technical_ms"`
		SparklineMS     int `yaml:"sparkline_ms"`
	} `yaml:"pacing"`
	Institutional struct {
		Days int `yaml:"days"`
	} `yaml:"institutional"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Watchlist        []model.WatchItem    `yaml:"watchlist"`
	SectorBenchmarks map[string]Benchmark `yaml:"sector_benchmarks"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		cfg.Schedule.RunOnStart = v == "1" || v == "true"
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("INSTITUTIONAL_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Institutional.Days = days
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Fetch.TimeoutSeconds == 0 {
		cfg.Fetch.TimeoutSeconds = 15
	}
	if cfg.Fetch.MaxAttempts == 0 {
		cfg.Fetch.MaxAttempts = 3
	}
	if cfg.Fetch.RetryDelayMS == 0 {
		cfg.Fetch.RetryDelayMS = 1000
	}
	if cfg.Pacing.InstitutionalMS == 0 {
		cfg.Pacing.InstitutionalMS = 800
	}
	if cfg.Pacing.TechnicalMS == 0 {
		cfg.Pacing.TechnicalMS = 500
	}
	if cfg.Pacing.SparklineMS == 0 {
		cfg.Pacing.SparklineMS = 300
	}
	if cfg.Institutional.Days == 0 {
		cfg.Institutional.Days = 5
	}
	if cfg.Schedule.RefreshCron == "" {
		// Weekdays at 18:30, after both boards publish institutional data.
		cfg.Schedule.RefreshCron = "0 30 18 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are consistent.
func (c *Config) Validate() error {
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist must not be empty")
	}
	seen := map[string]bool{}
	for i, item := range c.Watchlist {
		if item.ID == "" {
			return fmt.Errorf("watchlist[%d]: id is required", i)
		}
		if seen[item.ID] {
			return fmt.Errorf("watchlist: duplicate id %q", item.ID)
		}
		seen[item.ID] = true
		if item.Sector != "" {
			if _, ok := c.SectorBenchmarks[item.Sector]; !ok {
				return fmt.Errorf("watchlist %s: unknown sector %q", item.ID, item.Sector)
			}
		}
	}
	for code, b := range c.SectorBenchmarks {
		if b.GrahamThreshold <= 0 {
			return fmt.Errorf("sector %s: graham_threshold must be positive", code)
		}
		if b.PERange[0] > b.PERange[1] {
			return fmt.Errorf("sector %s: pe_range min exceeds max", code)
		}
		if b.PBRange[0] > b.PBRange[1] {
			return fmt.Errorf("sector %s: pb_range min exceeds max", code)
		}
	}
	if c.Institutional.Days <= 0 {
		return fmt.Errorf("institutional.days must be positive")
	}
	return nil
}

// Benchmarks converts the YAML benchmark shapes into the model form used by
// the scoring engine.
func (c *Config) Benchmarks() map[string]model.SectorBenchmark {
	out := make(map[string]model.SectorBenchmark, len(c.SectorBenchmarks))
	for code, b := range c.SectorBenchmarks {
		out[code] = model.SectorBenchmark{
			Name:            b.Name,
			GrahamThreshold: b.GrahamThreshold,
			PEMin:           b.PERange[0],
			PEMax:           b.PERange[1],
			PBMin:           b.PBRange[0],
			PBMax:           b.PBRange[1],
			YieldMin:        b.YieldMin,
		}
	}
	return out
}

// FetchTimeout returns the HTTP client timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// RetryDelay returns the inter-attempt retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Fetch.RetryDelayMS) * time.Millisecond
}
