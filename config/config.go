// Package config loads application settings from defaults, an optional
// config file, FIPE_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"fipe-web/logging"
)

const EnvPrefix = "FIPE"

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the main application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	History   HistoryConfig   `mapstructure:"history"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logging   logging.Config  `mapstructure:"logging"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig points at the pricing API. Timeout bounds one request,
// ChartBudget the whole per-year lookup behind the price chart.
type CatalogConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ChartBudget time.Duration `mapstructure:"chart_budget"`
}

// HistoryConfig selects the history backend and how many lookups it retains.
type HistoryConfig struct {
	Backend  string `mapstructure:"backend"`
	Capacity int    `mapstructure:"capacity"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type RateLimitConfig struct {
	Capacity int           `mapstructure:"capacity"`
	Refill   time.Duration `mapstructure:"refill"`
}

// SetDefaults registers every key with its default value. Registering all
// keys is also what lets environment variables override them.
func SetDefaults(v *viper.Viper) {
	log := logging.DefaultConfig()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("catalog.base_url", "https://parallelum.com.br/fipe/api/v1")
	v.SetDefault("catalog.timeout", 30*time.Second)
	v.SetDefault("catalog.chart_budget", 60*time.Second)

	v.SetDefault("history.backend", BackendMemory)
	v.SetDefault("history.capacity", 500)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "fipe:history")

	v.SetDefault("ratelimit.capacity", 60)
	v.SetDefault("ratelimit.refill", time.Minute)

	v.SetDefault("logging.level", log.Level)
	v.SetDefault("logging.format", log.Format)
	v.SetDefault("logging.output", log.Output)
	v.SetDefault("logging.development", log.Development)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Address == "" {
		errs = append(errs, errors.New("server.address must not be empty"))
	}
	if u, err := url.Parse(c.Catalog.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("catalog.base_url is not an absolute URL: %q", c.Catalog.BaseURL))
	}
	if c.Catalog.Timeout <= 0 || c.Catalog.ChartBudget <= 0 {
		errs = append(errs, errors.New("catalog.timeout and catalog.chart_budget must be positive"))
	}
	// /price spends one lookup on the record and then the chart budget.
	if c.Server.WriteTimeout > 0 && c.Catalog.Timeout+c.Catalog.ChartBudget >= c.Server.WriteTimeout {
		errs = append(errs, fmt.Errorf("catalog.timeout + catalog.chart_budget (%s) must stay below server.write_timeout (%s)",
			c.Catalog.Timeout+c.Catalog.ChartBudget, c.Server.WriteTimeout))
	}
	switch c.History.Backend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("history.backend must be %q or %q, got %q", BackendMemory, BackendRedis, c.History.Backend))
	}
	if c.History.Capacity <= 0 {
		errs = append(errs, errors.New("history.capacity must be positive"))
	}
	if c.RateLimit.Capacity <= 0 || c.RateLimit.Refill <= 0 {
		errs = append(errs, errors.New("ratelimit.capacity and ratelimit.refill must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	return errors.Join(errs...)
}
