// Package config loads dbgasm settings from a TOML file.
//
// The file is optional. Values missing from the file keep their defaults,
// and command-line flags override whatever the file sets:
//
//	[assembly]
//	k = 21
//	line_width = 60
//	formats = ["fasta", "json"]
//
//	[cache]
//	backend = "redis"
//	ttl = "72h"
//	redis_addr = "localhost:6379"
//	key_prefix = "dbgasm:prod:"
//
//	[server]
//	addr = ":8080"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dbgasm/pkg/errors"
)

const (
	appName  = "dbgasm"
	fileName = "config.toml"
)

// Default values used when neither the config file nor flags set a field.
const (
	DefaultK            = 21
	DefaultLineWidth    = 60
	DefaultBackend      = "file"
	DefaultTTL          = 7 * 24 * time.Hour
	DefaultRedisAddr    = "localhost:6379"
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultMongoDB      = appName
	DefaultMongoColl    = "cache"
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
)

// Config is the root of the TOML document.
type Config struct {
	Assembly Assembly `toml:"assembly"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
}

// Assembly holds assembler defaults.
type Assembly struct {
	K         int      `toml:"k"`
	LineWidth int      `toml:"line_width"`
	Formats   []string `toml:"formats"`
}

// Cache selects and configures the result cache backend.
type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`

	// SQLitePath is the database file of the sqlite backend. Empty means
	// cache.db in the XDG cache directory.
	SQLitePath string `toml:"sqlite_path"`

	// KeyPrefix namespaces keys so several deployments can share one
	// redis or mongo instance.
	KeyPrefix string `toml:"key_prefix"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Server configures the HTTP service.
type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
	// AllowedOrigins enables CORS for these origins. Empty disables CORS.
	AllowedOrigins []string `toml:"allowed_origins"`
	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `toml:"metrics"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every field set to its default.
// Cache.Dir is left empty; callers resolve it to the XDG cache directory.
func Default() Config {
	return Config{
		Assembly: Assembly{
			K:         DefaultK,
			LineWidth: DefaultLineWidth,
			Formats:   []string{"fasta"},
		},
		Cache: Cache{
			Backend:         DefaultBackend,
			TTL:             Duration{DefaultTTL},
			RedisAddr:       DefaultRedisAddr,
			MongoURI:        DefaultMongoURI,
			MongoDatabase:   DefaultMongoDB,
			MongoCollection: DefaultMongoColl,
		},
		Server: Server{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// Load reads the TOML file at path on top of Default and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file at DefaultPath. A missing file yields Default.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns $XDG_CONFIG_HOME/dbgasm/config.toml, falling back to
// ~/.config/dbgasm/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	if err := errors.ValidateKmerSize(c.Assembly.K); err != nil {
		return err
	}
	if err := errors.ValidateLineWidth(c.Assembly.LineWidth); err != nil {
		return err
	}
	if err := errors.ValidateCacheBackend(c.Cache.Backend); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.Backend == "mongo" && (c.Cache.MongoURI == "" || c.Cache.MongoDatabase == "" || c.Cache.MongoCollection == "") {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri, mongo_database and mongo_collection are required for the mongo backend")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	return nil
}
