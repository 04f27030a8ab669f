// Package config loads seatplan settings.
//
// Values come from, lowest precedence first: built-in defaults, a
// seatplan.toml file (the working directory, then the user config dir),
// a .env file in the working directory, and SEATPLAN_* environment
// variables. Nested keys map to env names with underscores, so
// store.mongo_uri is SEATPLAN_STORE_MONGO_URI.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/matzehuels/seatplan/pkg/canvas"
	"github.com/matzehuels/seatplan/pkg/errors"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Cache modes.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	// User is the acting user id for CLI commands. Defaults to $USER.
	User   string       `mapstructure:"user"`
	Store  StoreConfig  `mapstructure:"store"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Server ServerConfig `mapstructure:"server"`
	Editor EditorConfig `mapstructure:"editor"`
}

type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
	MongoURI   string `mapstructure:"mongo_uri"`
	MongoDB    string `mapstructure:"mongo_db"`
}

type CacheConfig struct {
	Mode          string `mapstructure:"mode"`
	Dir           string `mapstructure:"dir"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	Prefix        string `mapstructure:"prefix"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	JWTSecret string `mapstructure:"jwt_secret"`
	JWTIssuer string `mapstructure:"jwt_issuer"`
}

type EditorConfig struct {
	MinZoom    float64 `mapstructure:"min_zoom"`
	MaxZoom    float64 `mapstructure:"max_zoom"`
	GuestsFile string  `mapstructure:"guests_file"`
}

// DataDir returns the directory for seatplan's local database.
func DataDir() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "seatplan")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "seatplan")
	}
	return ".seatplan"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user", os.Getenv("USER"))

	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.sqlite_path", filepath.Join(DataDir(), "seatplan.db"))
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_db", "seatplan")

	v.SetDefault("cache.mode", CacheFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.prefix", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.jwt_issuer", "seatplan")

	v.SetDefault("editor.min_zoom", canvas.DefaultMinScale)
	v.SetDefault("editor.max_zoom", canvas.DefaultMaxScale)
	v.SetDefault("editor.guests_file", "")
}

// Load reads the configuration. An explicit path must exist; without one,
// a missing seatplan.toml is fine.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read .env")
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("seatplan")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "seatplan"))
		}
	}
	v.SetEnvPrefix("SEATPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and bounds.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite, BackendMongo:
	default:
		return errors.Validation("store.backend must be memory, sqlite or mongo, got %q", c.Store.Backend)
	}
	switch c.Cache.Mode {
	case CacheNone, CacheMemory, CacheFile, CacheRedis:
	default:
		return errors.Validation("cache.mode must be none, memory, file or redis, got %q", c.Cache.Mode)
	}
	if c.Editor.MinZoom <= 0 || c.Editor.MaxZoom < c.Editor.MinZoom {
		return errors.Validation("editor zoom bounds must satisfy 0 < min_zoom <= max_zoom, got %g..%g",
			c.Editor.MinZoom, c.Editor.MaxZoom)
	}
	return nil
}
