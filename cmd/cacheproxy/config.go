package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/bhwanip/apollo-server/pkg/keyvalue"
)

// Config holds the proxy configuration, read from a YAML file and
// overridable through command line flags.
type Config struct {
	Listen          string      `yaml:"listen"`
	Origin          string      `yaml:"origin"`
	UpstreamTimeout string      `yaml:"upstream_timeout"`
	Store           StoreConfig `yaml:"store"`
	Log             LogConfig   `yaml:"log"`

	// Compiled during validate.
	originURL       *url.URL
	upstreamTimeout time.Duration
}

// StoreConfig selects and configures the cache backend.
type StoreConfig struct {
	Backend   string          `yaml:"backend"`
	Redis     RedisConfig     `yaml:"redis"`
	Memcached MemcachedConfig `yaml:"memcached"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	LevelDB   LevelDBConfig   `yaml:"leveldb"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MemcachedConfig holds the server list for the memcached backend.
type MemcachedConfig struct {
	Addrs []string `yaml:"addrs"`
}

// SQLiteConfig holds the database path for the sqlite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// LevelDBConfig holds the database path for the leveldb backend.
type LevelDBConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// loadConfig reads the YAML file at path and fills in defaults. An empty
// path yields the default configuration. Validation happens separately so
// flag overrides can apply first.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.UpstreamTimeout == "" {
		cfg.UpstreamTimeout = "30s"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Store.Redis.Addr == "" {
		cfg.Store.Redis.Addr = "localhost:6379"
	}
	if len(cfg.Store.Memcached.Addrs) == 0 {
		cfg.Store.Memcached.Addrs = []string{"localhost:11211"}
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = "cacheproxy.db"
	}
	if cfg.Store.LevelDB.Path == "" {
		cfg.Store.LevelDB.Path = "cacheproxy.leveldb"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// validate checks the assembled configuration and compiles the origin URL
// and upstream timeout.
func (c *Config) validate() error {
	if c.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	u, err := url.Parse(c.Origin)
	if err != nil {
		return fmt.Errorf("parsing origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("origin must be an http or https URL, got %q", c.Origin)
	}
	if u.Host == "" {
		return fmt.Errorf("origin is missing a host: %q", c.Origin)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	c.originURL = u

	d, err := time.ParseDuration(c.UpstreamTimeout)
	if err != nil {
		return fmt.Errorf("parsing upstream_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("upstream_timeout must be positive, got %s", c.UpstreamTimeout)
	}
	c.upstreamTimeout = d

	switch c.Store.Backend {
	case "memory", "redis", "memcached", "sqlite", "leveldb":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	return nil
}

// openStore builds the configured cache backend. The returned close
// function releases whatever the backend holds open.
func openStore(cfg StoreConfig) (keyvalue.Store, func(), error) {
	switch cfg.Backend {
	case "memory":
		return keyvalue.NewMemory(), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return keyvalue.NewRedis(client), func() { client.Close() }, nil

	case "memcached":
		store := keyvalue.NewMemcached(cfg.Memcached.Addrs...)
		if err := store.Ping(); err != nil {
			return nil, nil, fmt.Errorf("connecting to memcached at %s: %w", strings.Join(cfg.Memcached.Addrs, ","), err)
		}
		return store, func() {}, nil

	case "sqlite":
		store, err := keyvalue.NewSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, func() { store.Close() }, nil

	case "leveldb":
		store, err := keyvalue.NewLevelDB(cfg.LevelDB.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening leveldb store: %w", err)
		}
		return store, func() { store.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
