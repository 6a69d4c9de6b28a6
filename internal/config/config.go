package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings. Values come from defaults, an optional
// config file (CONFIG_FILE) and the environment, in increasing precedence.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	MigrateOnStart  bool
	RedisAddr       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	Import          ImportConfig
	RateLimit       RateLimitConfig
}

type ImportConfig struct {
	Enabled            bool
	FeedURL            string
	ProductURLTemplate string
	Interval           time.Duration
	Limit              int
	Timeout            time.Duration
}

// RateLimitConfig applies per client IP to mutating routes. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

var allowedLogFormats = map[string]struct{}{"text": {}, "json": {}}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.url", "")
	v.SetDefault("database.migrate", true)
	v.SetDefault("redis.addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("shutdown.timeout", "10s")
	v.SetDefault("import.enabled", true)
	v.SetDefault("import.feed_url", "https://famme.no/products.json")
	v.SetDefault("import.product_url_template", "https://famme.no/products/{handle}")
	v.SetDefault("import.interval", "12h")
	v.SetDefault("import.limit", 50)
	v.SetDefault("import.timeout", "30s")
	v.SetDefault("ratelimit.rps", 5)
	v.SetDefault("ratelimit.burst", 10)
}

// Load reads the configuration. configFile may be empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// database.url is read from DATABASE_URL, import.interval from IMPORT_INTERVAL, etc.
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		HTTPAddr:        v.GetString("http.addr"),
		DatabaseURL:     v.GetString("database.url"),
		MigrateOnStart:  v.GetBool("database.migrate"),
		RedisAddr:       v.GetString("redis.addr"),
		LogLevel:        strings.ToLower(v.GetString("log.level")),
		LogFormat:       strings.ToLower(v.GetString("log.format")),
		ShutdownTimeout: v.GetDuration("shutdown.timeout"),
		Import: ImportConfig{
			Enabled:            v.GetBool("import.enabled"),
			FeedURL:            v.GetString("import.feed_url"),
			ProductURLTemplate: v.GetString("import.product_url_template"),
			Interval:           v.GetDuration("import.interval"),
			Limit:              v.GetInt("import.limit"),
			Timeout:            v.GetDuration("import.timeout"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	if _, ok := allowedLogFormats[c.LogFormat]; !ok {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.LogFormat))
	}
	if c.Import.Enabled {
		if c.Import.FeedURL == "" {
			errs = append(errs, errors.New("import.feed_url must not be empty"))
		}
		if c.Import.Interval <= 0 {
			errs = append(errs, errors.New("import.interval must be positive"))
		}
		if c.Import.Limit <= 0 {
			errs = append(errs, errors.New("import.limit must be positive"))
		}
		if c.Import.Timeout <= 0 {
			errs = append(errs, errors.New("import.timeout must be positive"))
		}
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("ratelimit.burst must be positive when rate limiting is on"))
	}
	return errors.Join(errs...)
}
