// Package config loads the TOML configuration shared by the server and CLI.
//
// Every field has a working default: an empty file (or no file at all) yields
// a memory-backed, cache-less, allow-all instance suitable for local
// development. Production deployments point the store at MongoDB, the cache
// at Redis, and authorization at a casbin policy file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/campusgrid/orgcanvas/pkg/authz"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheNull  = "null"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Authorization backends.
const (
	AuthzAllowAll = "allow-all"
	AuthzCasbin   = "casbin"
)

// Config is the root configuration document.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Authz  AuthzConfig  `toml:"authz"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	ReadTimeoutSec  int    `toml:"read_timeout_sec"`
	WriteTimeoutSec int    `toml:"write_timeout_sec"`
}

// StoreConfig selects and configures the record backend.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`

	// Fixture seeds the memory backend from a YAML file. Ignored by mongo.
	Fixture string `toml:"fixture"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend  string      `toml:"backend"`
	Dir      string      `toml:"dir"` // file backend; empty means the user cache dir
	Redis    RedisConfig `toml:"redis"`
	TenantID string      `toml:"tenant_id"` // optional key prefix for shared backends
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// AuthzConfig selects and configures the authorization backend.
type AuthzConfig struct {
	Backend string `toml:"backend"`

	// Policy is the casbin CSV policy file.
	Policy string `toml:"policy"`

	// Scopes maps subjects to their record restrictions. A subject missing
	// from the map is unrestricted (policy checks still apply).
	Scopes map[string]authz.Filters `toml:"scopes"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 60,
		},
		Store: StoreConfig{
			Backend:  StoreMemory,
			Database: "orgcanvas",
		},
		Cache: CacheConfig{
			Backend: CacheNull,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Authz: AuthzConfig{
			Backend: AuthzAllowAll,
		},
	}
}

// Load reads a TOML file over the defaults. A missing file is not an error;
// an unreadable or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks backend selections and their required fields.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (must be one of: memory, mongo)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNull, CacheFile:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (must be one of: null, file, redis)", c.Cache.Backend)
	}

	switch c.Authz.Backend {
	case AuthzAllowAll:
	case AuthzCasbin:
		if c.Authz.Policy == "" {
			return fmt.Errorf("authz.policy is required for the casbin backend")
		}
	default:
		return fmt.Errorf("unknown authz backend %q (must be one of: allow-all, casbin)", c.Authz.Backend)
	}
	return nil
}
