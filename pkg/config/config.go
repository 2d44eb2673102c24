// Package config loads sitroom settings.
//
// Settings come from three layers, later ones winning:
//   - built-in defaults
//   - a TOML file, by default $XDG_CONFIG_HOME/sitroom/config.toml
//   - SITROOM_* environment variables, optionally read from a .env file
//
// A missing config file is not an error.
//
// Example config.toml:
//
//	[storage]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[share]
//	base_url = "https://sitroom.example/"
//
//	[server]
//	listen = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/storage"
)

// Environment variables.
const (
	EnvStorage       = "SITROOM_STORAGE"
	EnvStatePath     = "SITROOM_STATE_PATH"
	EnvRedisAddr     = "SITROOM_REDIS_ADDR"
	EnvRedisPassword = "SITROOM_REDIS_PASSWORD"
	EnvRedisDB       = "SITROOM_REDIS_DB"
	EnvMongoURI      = "SITROOM_MONGO_URI"
	EnvBaseURL       = "SITROOM_BASE_URL"
	EnvListen        = "SITROOM_LISTEN"
	EnvLogLevel      = "SITROOM_LOG_LEVEL"
)

// Config is the complete sitroom configuration.
type Config struct {
	Storage storage.Options `toml:"storage"`
	Share   Share           `toml:"share"`
	Server  Server          `toml:"server"`
	Log     Log             `toml:"log"`
}

// Share configures share links.
type Share struct {
	// BaseURL is prefixed to share tokens. Empty means tokens are printed bare.
	BaseURL string `toml:"base_url"`
}

// Server configures `sitroom serve`.
type Server struct {
	Listen string `toml:"listen"`
	// Watch reloads the state file when another process changes it.
	Watch bool `toml:"watch"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: storage.Options{Backend: storage.BackendFile},
		Server:  Server{Listen: "127.0.0.1:8080"},
		Log:     Log{Level: "info"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidConfig, err, "locate config dir")
	}
	return filepath.Join(dir, "sitroom", "config.toml"), nil
}

// Load reads the config file at path (DefaultPath if empty), then a .env
// file in the working directory, then the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read .env")
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	var backend string
	str(EnvStorage, &backend)
	if backend != "" {
		cfg.Storage.Backend = storage.Backend(backend)
	}
	str(EnvStatePath, &cfg.Storage.Path)
	str(EnvRedisAddr, &cfg.Storage.RedisAddr)
	str(EnvRedisPassword, &cfg.Storage.RedisPassword)
	str(EnvMongoURI, &cfg.Storage.MongoURI)
	str(EnvBaseURL, &cfg.Share.BaseURL)
	str(EnvListen, &cfg.Server.Listen)
	str(EnvLogLevel, &cfg.Log.Level)

	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s must be an integer", EnvRedisDB)
		}
		cfg.Storage.RedisDB = db
	}
	return nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Share.BaseURL != "" {
		if err := errs.ValidateURL(c.Share.BaseURL); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "share.base_url")
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	return nil
}
