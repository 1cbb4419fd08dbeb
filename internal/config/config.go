// Package config loads server settings from the environment
package config

import (
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/witchfire-saves/internal/errors"
)

// Session stores
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds every server setting
type Config struct {
	Port             int           `env:"WITCHFIRE_PORT"               envDefault:"50051"`
	LogLevel         string        `env:"WITCHFIRE_LOG_LEVEL"          envDefault:"info"`
	LogFormat        string        `env:"WITCHFIRE_LOG_FORMAT"         envDefault:"text"`
	Store            string        `env:"WITCHFIRE_STORE"              envDefault:"memory"`
	SessionTTL       time.Duration `env:"WITCHFIRE_SESSION_TTL"        envDefault:"1h"`
	MaxDocumentBytes int           `env:"WITCHFIRE_MAX_DOCUMENT_BYTES" envDefault:"33554432"`

	// CatalogPath points at a YAML catalog replacing the built-in one
	CatalogPath string `env:"WITCHFIRE_CATALOG"`

	Redis Redis `envPrefix:"WITCHFIRE_REDIS_"`
}

// Redis holds the connection settings used when Store is "redis"
type Redis struct {
	Addrs    []string `env:"ADDRS"     envSeparator:"," envDefault:"localhost:6379"`
	Password string   `env:"PASSWORD"`
	DB       int      `env:"DB"`
	TLS      bool     `env:"TLS"`
	PoolSize int      `env:"POOL_SIZE"`
}

// Load reads dotenv files into the process environment, then parses it.
// Without arguments an optional ".env" in the working directory is used.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read .env")
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read env files")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse builds a Config from an explicit environment
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange("Port", c.Port, 1, 65535, vb)
	if _, ok := parseLevel(c.LogLevel); !ok {
		vb.InvalidField("LogLevel", "must be debug, info, warn or error")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		vb.InvalidField("LogFormat", "must be text or json")
	}
	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if len(c.Redis.Addrs) == 0 {
			vb.RequiredField("Redis.Addrs")
		}
	default:
		vb.InvalidField("Store", "must be memory or redis")
	}
	if c.SessionTTL <= 0 {
		vb.InvalidField("SessionTTL", "must be positive")
	}
	if c.MaxDocumentBytes <= 0 {
		vb.InvalidField("MaxDocumentBytes", "must be positive")
	}

	return vb.Build()
}

// Logger builds the process logger
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, false
	}
	return level, true
}
