// Package config loads the service configuration in three layers, each
// overriding the previous one:
//
//  1. built-in defaults
//  2. an optional YAML file (CARTSYNC_CONFIG_PATH, or ./config.yaml)
//  3. environment variables prefixed with CARTSYNC_, e.g.
//     CARTSYNC_DATABASE_URL -> database.url,
//     CARTSYNC_SYNC_FLUSH_INTERVAL -> sync.flush_interval
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/nikolayk812/cartsync/internal/logging"
	"github.com/nikolayk812/cartsync/internal/repository"
)

const (
	EnvPrefix        = "CARTSYNC_"
	ConfigPathEnvVar = EnvPrefix + "CONFIG_PATH"
)

var DefaultConfigPaths = []string{"config.yaml", "/etc/cartsync/config.yaml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Local    LocalConfig    `koanf:"local"`
	Sync     SyncConfig     `koanf:"sync"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Payment  PaymentConfig  `koanf:"payment"`
	Auth     AuthConfig     `koanf:"auth"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool `koanf:"secure_cookies"`
	// CORSOrigins lists storefront origins allowed to call the API with
	// credentials. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`
	// AuthRateLimit is the number of /auth requests allowed per client IP
	// per minute. Zero disables the limit.
	AuthRateLimit int `koanf:"auth_rate_limit"`
}

type DatabaseConfig struct {
	URL      string `koanf:"url"`
	MaxConns int32  `koanf:"max_conns"`
}

// LocalConfig points at the on-disk store for client side state. An empty
// Dir keeps it in memory.
type LocalConfig struct {
	Dir string `koanf:"dir"`
}

type SyncConfig struct {
	// FlushInterval is how often queued remote cart writes are retried.
	FlushInterval time.Duration `koanf:"flush_interval"`
	// SessionIdle is how long a browser session may go unused before its
	// in-memory client is dropped. Its cart stays in the local store.
	SessionIdle time.Duration `koanf:"session_idle"`
}

type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

type PaymentConfig struct {
	Delay time.Duration `koanf:"delay"`
}

type AuthConfig struct {
	// AutoVerify lets new accounts sign in without confirming their email.
	AutoVerify bool `koanf:"auto_verify"`
	BcryptCost int  `koanf:"bcrypt_cost"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	breaker := repository.DefaultBreakerConfig("")

	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			AuthRateLimit:   20,
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Sync: SyncConfig{
			FlushInterval: 15 * time.Second,
			SessionIdle:   30 * time.Minute,
		},
		Breaker: BreakerConfig{
			MaxRequests:      breaker.MaxRequests,
			Interval:         breaker.Interval,
			Timeout:          breaker.Timeout,
			FailureThreshold: breaker.FailureThreshold,
		},
		Payment: PaymentConfig{
			Delay: 2 * time.Second,
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads defaults, the config file and the environment, in that order.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransform maps CARTSYNC_SECTION_SOME_KEY to section.some_key. Keys that
// are not part of a section (CONFIG_PATH) are dropped.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	section, rest, ok := strings.Cut(key, "_")
	if !ok || section == "config" {
		return ""
	}
	return section + "." + rest
}

func (c *Config) Validate() error {
	var errs []error

	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, fmt.Errorf("database.max_conns must be positive, got %d", c.Database.MaxConns))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.AuthRateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.auth_rate_limit must not be negative, got %d", c.Server.AuthRateLimit))
	}
	if c.Sync.FlushInterval <= 0 {
		errs = append(errs, fmt.Errorf("sync.flush_interval must be positive, got %s", c.Sync.FlushInterval))
	}
	if c.Sync.SessionIdle <= 0 {
		errs = append(errs, fmt.Errorf("sync.session_idle must be positive, got %s", c.Sync.SessionIdle))
	}
	if c.Breaker.FailureThreshold == 0 {
		errs = append(errs, errors.New("breaker.failure_threshold must be positive"))
	}
	if c.Payment.Delay < 0 {
		errs = append(errs, fmt.Errorf("payment.delay must not be negative, got %s", c.Payment.Delay))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// BreakerFor returns breaker settings for one remote store.
func (c *Config) BreakerFor(name string) repository.BreakerConfig {
	return repository.BreakerConfig{
		Name:             name,
		MaxRequests:      c.Breaker.MaxRequests,
		Interval:         c.Breaker.Interval,
		Timeout:          c.Breaker.Timeout,
		FailureThreshold: c.Breaker.FailureThreshold,
	}
}

func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
