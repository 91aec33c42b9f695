package storage

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

// Storage driver names.
const (
	DriverFilesystem = "filesystem"
	DriverSQLite     = "sqlite"
	DriverPostgres   = "postgres"
	DriverRedis      = "redis"
)

// Config contains blob storage configuration.
type Config struct {
	Driver string `toml:"driver"`

	// BasePath is the root directory for filesystem storage.
	// Default: ".data/store"
	BasePath string `toml:"base_path"`

	MaxObjectSize    string `toml:"max_object_size"`
	maxObjectSizeVal int64

	SQLite SQLiteConfig `toml:"sqlite"`
	Redis  RedisConfig  `toml:"redis"`
}

// SQLiteConfig locates the SQLite database file.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// RedisConfig configures the Redis driver. Keys are namespaced by Prefix.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Env maps environment variable names for storage configuration.
type Env struct {
	Driver        string
	BasePath      string
	MaxObjectSize string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       string
}

func (c *Config) MaxObjectSizeBytes() int64 {
	return c.maxObjectSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if size, err := units.FromHumanSize(overlay.MaxObjectSize); err == nil {
		c.MaxObjectSize = overlay.MaxObjectSize
		c.maxObjectSizeVal = size
	}
	if overlay.SQLite.Path != "" {
		c.SQLite.Path = overlay.SQLite.Path
	}
	if overlay.Redis.Addr != "" {
		c.Redis.Addr = overlay.Redis.Addr
	}
	if overlay.Redis.Password != "" {
		c.Redis.Password = overlay.Redis.Password
	}
	if overlay.Redis.DB != 0 {
		c.Redis.DB = overlay.Redis.DB
	}
	if overlay.Redis.Prefix != "" {
		c.Redis.Prefix = overlay.Redis.Prefix
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/store"
	}
	if c.MaxObjectSize == "" {
		c.MaxObjectSize = "10MB"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = ".data/peterental.db"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "peterental:"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.BasePath != "" {
		if v := os.Getenv(env.BasePath); v != "" {
			c.BasePath = v
		}
	}
	if env.MaxObjectSize != "" {
		if v := os.Getenv(env.MaxObjectSize); v != "" {
			c.MaxObjectSize = v
		}
	}
	if env.SQLitePath != "" {
		if v := os.Getenv(env.SQLitePath); v != "" {
			c.SQLite.Path = v
		}
	}
	if env.RedisAddr != "" {
		if v := os.Getenv(env.RedisAddr); v != "" {
			c.Redis.Addr = v
		}
	}
	if env.RedisPassword != "" {
		if v := os.Getenv(env.RedisPassword); v != "" {
			c.Redis.Password = v
		}
	}
	if env.RedisDB != "" {
		if v := os.Getenv(env.RedisDB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Redis.DB = n
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required")
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path required")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr required")
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("invalid driver: %q (must be filesystem, sqlite, postgres, or redis)", c.Driver)
	}

	size, err := units.FromHumanSize(c.MaxObjectSize)
	if err != nil {
		return fmt.Errorf("invalid max_object_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_object_size must be positive")
	}
	c.maxObjectSizeVal = size

	return nil
}
