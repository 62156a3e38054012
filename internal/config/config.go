// Package config loads server configuration from an optional TOML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/splitr/splitr/internal/calculator"
	"github.com/splitr/splitr/internal/money"
	"github.com/splitr/splitr/internal/storage/sqlstore"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Balance BalanceConfig `toml:"balance"`
	Log     LogConfig     `toml:"log"`
	Events  EventsConfig  `toml:"events"`
	Metrics MetricsConfig `toml:"metrics"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
	// StaticPath serves a web client from disk when set.
	StaticPath string `toml:"static_path"`
	// AllowedOrigins for CORS; "*" allows any.
	AllowedOrigins []string `toml:"allowed_origins"`
}

type StorageConfig struct {
	Driver string `toml:"driver"`
	// Path is the SQLite database file.
	Path string `toml:"path"`
	// DSN is the PostgreSQL connection string.
	DSN string `toml:"dsn"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	TokenTTL  string `toml:"token_ttl"`
}

type BalanceConfig struct {
	// Rounding applies when decimal amounts are converted to cents.
	Rounding string `toml:"rounding"`
	// SimplifyDebts enables transitive netting of balances.
	SimplifyDebts bool `toml:"simplify_debts"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type EventsConfig struct {
	KafkaBrokers []string `toml:"kafka_brokers"`
	Topic        string   `toml:"topic"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Driver: sqlstore.DriverSQLite,
			Path:   "./data/splitr.db",
		},
		Auth: AuthConfig{
			TokenTTL: "24h",
		},
		Balance: BalanceConfig{
			Rounding: money.RoundHalfUp.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Events: EventsConfig{
			Topic: "splitr.ledger",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads path over the defaults (a missing path is allowed when empty),
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set("SPLITR_ADDR", &c.Server.Addr)
	set("STATIC_PATH", &c.Server.StaticPath)
	set("DB_DRIVER", &c.Storage.Driver)
	set("DB_PATH", &c.Storage.Path)
	set("DB_DSN", &c.Storage.DSN)
	set("JWT_SECRET", &c.Auth.JWTSecret)
	set("TOKEN_TTL", &c.Auth.TokenTTL)
	set("BALANCE_ROUNDING", &c.Balance.Rounding)
	set("LOG_LEVEL", &c.Log.Level)
	set("LOG_FORMAT", &c.Log.Format)
	set("KAFKA_TOPIC", &c.Events.Topic)
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Events.KafkaBrokers = splitList(v)
	}
	if v := getenv("SIMPLIFY_DEBTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Balance.SimplifyDebts = b
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case sqlstore.DriverSQLite:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for sqlite"))
		}
	case sqlstore.DriverPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not sqlite or postgres", c.Storage.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required"))
	}
	if ttl, err := time.ParseDuration(c.Auth.TokenTTL); err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl %q is not a positive duration", c.Auth.TokenTTL))
	}
	if _, err := money.ParseRounding(c.Balance.Rounding); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// TokenTTL returns the parsed session lifetime.
func (c Config) TokenTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Auth.TokenTTL)
	return ttl
}

// Rounding returns the parsed rounding mode.
func (c Config) Rounding() money.Rounding {
	r, _ := money.ParseRounding(c.Balance.Rounding)
	return r
}

// BalanceOptions returns the reduction options for the balance engine.
func (c Config) BalanceOptions() calculator.Options {
	return calculator.Options{SimplifyDebts: c.Balance.SimplifyDebts}
}

// StorageDSN returns what sqlstore.Open expects for the configured driver.
func (c Config) StorageDSN() string {
	if c.Storage.Driver == sqlstore.DriverSQLite {
		return c.Storage.Path
	}
	return c.Storage.DSN
}
