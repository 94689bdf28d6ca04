// Package config loads the tilemarks configuration file.
//
// Configuration is TOML, looked up at the path given on the command line or
// at $XDG_CONFIG_HOME/tilemarks/config.toml (falling back to
// ~/.config/tilemarks/config.toml). A missing file yields the defaults; a
// malformed file is an error.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tilemarks/tilemarks/pkg/enrich"
	"github.com/tilemarks/tilemarks/pkg/errors"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Enrich  EnrichConfig  `toml:"enrich"`
	Canvas  CanvasConfig  `toml:"canvas"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Backend is one of "file", "memory", "redis", "mongo".
	Backend string `toml:"backend"`

	// Dir is the data directory for the file backend.
	// Empty means ~/.local/share/tilemarks.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// EnrichConfig configures the metadata/favicon pipeline.
type EnrichConfig struct {
	FaviconService string `toml:"favicon_service"`
	MetaEndpoint   string `toml:"meta_endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// CanvasConfig sets the default canvas for CLI layout rendering.
type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8477"},
		Storage: StorageConfig{Backend: "file"},
		Enrich: EnrichConfig{
			FaviconService: enrich.DefaultFaviconService,
			MetaEndpoint:   enrich.DefaultMetaEndpoint,
			TimeoutSeconds: 10,
		},
		Canvas: CanvasConfig{Width: 1920, Height: 1080},
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error: defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, cfg.validate()
}

// EnrichTimeout returns the enrichment timeout as a duration.
func (c Config) EnrichTimeout() time.Duration {
	return time.Duration(c.Enrich.TimeoutSeconds) * time.Second
}

// DataDir returns the file backend's data directory, creating the default
// location name when unset (without creating the directory itself).
func (c Config) DataDir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "tilemarks-data"
	}
	return filepath.Join(home, ".local", "share", "tilemarks")
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case "file", "memory", "redis", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown storage backend %q", c.Storage.Backend)
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be non-negative")
	}
	return nil
}

func defaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tilemarks", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "tilemarks", "config.toml")
}
