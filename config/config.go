// Package config loads cache options from the environment or a TOML/YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultExpiration is the TTL applied when none is configured.
	DefaultExpiration = 24 * time.Hour
	// DefaultMaxSize is the entry bound applied when none is configured.
	DefaultMaxSize = 100
)

// ErrInvalidConfig is wrapped by every validation and parse failure.
var ErrInvalidConfig = errors.New("invalid cache config")

// Options is the cache configuration.
type Options struct {
	Expiration time.Duration
	MaxSize    int
	LogLevel   string
	LogFormat  string
}

// Default returns the 24h / 100 entry configuration.
func Default() Options {
	return Options{
		Expiration: DefaultExpiration,
		MaxSize:    DefaultMaxSize,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Normalize replaces unset (zero or negative) expiration and size with defaults.
func (o Options) Normalize() Options {
	if o.Expiration <= 0 {
		o.Expiration = DefaultExpiration
	}
	if o.MaxSize <= 0 {
		o.MaxSize = DefaultMaxSize
	}
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
	if o.LogFormat == "" {
		o.LogFormat = "text"
	}
	return o
}

// Validate checks the logging fields. Expiration and size are always usable
// after Normalize.
func (o Options) Validate() error {
	switch strings.ToLower(o.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, o.LogFormat)
	}
	switch strings.ToLower(o.LogLevel) {
	case "panic", "fatal", "error", "warn", "warning", "info", "debug", "trace":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, o.LogLevel)
	}
	return nil
}

/*
FromEnv reads options from the environment, loading a .env file first if one
exists in the working directory.

	TASKCACHE_EXPIRATION_MS  TTL in milliseconds
	TASKCACHE_EXPIRATION     TTL as a Go duration; wins over _MS
	TASKCACHE_MAX_SIZE       entry bound
	TASKCACHE_LOG_LEVEL      logrus level
	TASKCACHE_LOG_FORMAT     text or json
*/
func FromEnv() (Options, error) {
	_ = godotenv.Load()

	opts := Default()
	opts.Expiration = getDurationEnv("TASKCACHE_EXPIRATION",
		getMillisEnv("TASKCACHE_EXPIRATION_MS", DefaultExpiration))
	opts.MaxSize = getIntEnv("TASKCACHE_MAX_SIZE", DefaultMaxSize)
	opts.LogLevel = getEnv("TASKCACHE_LOG_LEVEL", opts.LogLevel)
	opts.LogFormat = getEnv("TASKCACHE_LOG_FORMAT", opts.LogFormat)

	opts = opts.Normalize()
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// fileOptions is the on-disk shape shared by TOML and YAML.
type fileOptions struct {
	ExpirationMs int64  `toml:"expiration_ms" yaml:"expiration_ms"`
	Expiration   string `toml:"expiration" yaml:"expiration"`
	MaxSize      int    `toml:"max_size" yaml:"max_size"`
	LogLevel     string `toml:"log_level" yaml:"log_level"`
	LogFormat    string `toml:"log_format" yaml:"log_format"`
}

// LoadFile reads options from a .toml, .yaml or .yml file.
func LoadFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var raw fileOptions
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return Options{}, fmt.Errorf("%w: unsupported file extension %q", ErrInvalidConfig, ext)
	}
	if err != nil {
		return Options{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}

	return raw.options()
}

func (f fileOptions) options() (Options, error) {
	opts := Options{
		Expiration: time.Duration(f.ExpirationMs) * time.Millisecond,
		MaxSize:    f.MaxSize,
		LogLevel:   f.LogLevel,
		LogFormat:  f.LogFormat,
	}
	if f.Expiration != "" {
		d, err := time.ParseDuration(f.Expiration)
		if err != nil {
			return Options{}, fmt.Errorf("%w: expiration %q: %v", ErrInvalidConfig, f.Expiration, err)
		}
		opts.Expiration = d
	}

	opts = opts.Normalize()
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getMillisEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
