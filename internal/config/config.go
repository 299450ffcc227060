package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input              string          `yaml:"input"`
	OutputDir          string          `yaml:"output_dir"`
	OffsetBytes        int64           `yaml:"offset_bytes"`
	MaxDurationSeconds int             `yaml:"max_duration_seconds"`
	Rate               RateConfig      `yaml:"rate"`
	Timestamp          TimestampConfig `yaml:"timestamp"`
	Logs               LogsConfig      `yaml:"logs"`
}

type RateConfig struct {
	// Policy selects the admission policy: "pass" counts and forwards
	// everything, "pace" couples output rate to wall-clock time.
	Policy      string  `yaml:"policy"`
	FrequencyHz float64 `yaml:"frequency_hz"`
}

type TimestampConfig struct {
	// Source selects where per-line timestamps come from: "embedded"
	// derives them from GPS week/seconds fields with carry-forward,
	// "wallclock" stamps every line with the current time.
	Source string `yaml:"source"`
}

type LogsConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

const (
	PolicyPass = "pass"
	PolicyPace = "pace"

	SourceEmbedded  = "embedded"
	SourceWallClock = "wallclock"
)

// Default returns the configuration used when no config file is given.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config from path and applies defaults and validation.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.OffsetBytes <= 0 {
		c.OffsetBytes = 1_000_000
	}
	if c.MaxDurationSeconds <= 0 {
		c.MaxDurationSeconds = 30
	}
	if c.Rate.Policy == "" {
		c.Rate.Policy = PolicyPass
	}
	if c.Rate.FrequencyHz <= 0 {
		c.Rate.FrequencyHz = 1
	}
	if c.Timestamp.Source == "" {
		c.Timestamp.Source = SourceEmbedded
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = 25
	}
	if c.Logs.MaxAgeDays <= 0 {
		c.Logs.MaxAgeDays = 7
	}
	if c.Logs.MaxBackups <= 0 {
		c.Logs.MaxBackups = 5
	}
}

func (c *Config) validate() error {
	if c.Rate.Policy != PolicyPass && c.Rate.Policy != PolicyPace {
		return fmt.Errorf("rate.policy must be %q or %q, got %q", PolicyPass, PolicyPace, c.Rate.Policy)
	}
	if c.Timestamp.Source != SourceEmbedded && c.Timestamp.Source != SourceWallClock {
		return fmt.Errorf("timestamp.source must be %q or %q, got %q", SourceEmbedded, SourceWallClock, c.Timestamp.Source)
	}
	return nil
}

// MaxDuration returns the run budget as a duration.
func (c Config) MaxDuration() time.Duration {
	return time.Duration(c.MaxDurationSeconds) * time.Second
}
