// Package config loads esgrate settings from a YAML file with environment
// variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultModel is the Claude model used by the advisor when none is set.
const DefaultModel = "claude-sonnet-4-5-20250929"

// Config is the full esgrate configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Advisor   AdvisorConfig   `yaml:"advisor"`
	Log       LogConfig       `yaml:"log"`
	Scorecard ScorecardConfig `yaml:"scorecard"`
}

type ServerConfig struct {
	Addr      string          `yaml:"addr"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// StorageConfig selects the history backend: file, sqlite or postgres.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Dir    string `yaml:"dir"`
	DSN    string `yaml:"dsn"`
}

// RedisConfig configures the advisor cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AdvisorConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

type ScorecardConfig struct {
	FontPath string `yaml:"font_path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: RateLimitConfig{RPS: 5, Burst: 10},
		},
		Storage: StorageConfig{Driver: "file", Dir: ".esgrate/history"},
		Redis:   RedisConfig{TTL: 24 * time.Hour},
		Advisor: AdvisorConfig{Model: DefaultModel, MaxTokens: 1024},
		Log:     LogConfig{Mode: "development"},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ESGRATE_ADDR":           &c.Server.Addr,
		"ESGRATE_STORAGE_DRIVER": &c.Storage.Driver,
		"ESGRATE_STORAGE_DIR":    &c.Storage.Dir,
		"ESGRATE_DATABASE_URL":   &c.Storage.DSN,
		"ESGRATE_REDIS_ADDR":     &c.Redis.Addr,
		"ESGRATE_REDIS_PASSWORD": &c.Redis.Password,
		"ESGRATE_ADVISOR_MODEL":  &c.Advisor.Model,
		"ESGRATE_ADVISOR_URL":    &c.Advisor.BaseURL,
		"ANTHROPIC_API_KEY":      &c.Advisor.APIKey,
		"ESGRATE_LOG_MODE":       &c.Log.Mode,
		"ESGRATE_LOG_LEVEL":      &c.Log.Level,
		"ESGRATE_SCORECARD_FONT": &c.Scorecard.FontPath,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	var errs []error
	if v, ok := lookup("ESGRATE_RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("ESGRATE_RATE_LIMIT_RPS: %w", err))
		}
		c.Server.RateLimit.RPS = f
	}
	ints := map[string]*int{
		"ESGRATE_RATE_LIMIT_BURST": &c.Server.RateLimit.Burst,
		"ESGRATE_REDIS_DB":         &c.Redis.DB,
		"ESGRATE_ADVISOR_TOKENS":   &c.Advisor.MaxTokens,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			*dst = n
		}
	}
	if v, ok := lookup("ESGRATE_REDIS_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ESGRATE_REDIS_TTL: %w", err))
		} else {
			c.Redis.TTL = d
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("server.rate_limit.rps must not be negative"))
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("server.rate_limit.burst must be at least 1"))
	}
	switch c.Storage.Driver {
	case "file":
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the file driver"))
		}
	case "sqlite", "postgres":
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required for the %s driver", c.Storage.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q: want file, sqlite or postgres", c.Storage.Driver))
	}
	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		errs = append(errs, errors.New("redis.ttl must be positive"))
	}
	if c.Advisor.MaxTokens <= 0 {
		errs = append(errs, errors.New("advisor.max_tokens must be positive"))
	}
	switch c.Log.Mode {
	case "development", "dev", "production", "prod":
	default:
		errs = append(errs, fmt.Errorf("log.mode %q: want development or production", c.Log.Mode))
	}
	return errors.Join(errs...)
}
