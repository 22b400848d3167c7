// Package config loads and validates the hearth configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hearth/internal/entity"
)

// Local backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Remote drivers. An empty driver disables the remote store.
const (
	DriverNone      = ""
	DriverSQLite    = "sqlite"
	DriverCassandra = "cassandra"
)

// Config is the whole configuration file.
type Config struct {
	Local  LocalConfig  `yaml:"local"`
	Remote RemoteConfig `yaml:"remote"`

	// Tables maps kinds to remote table names. Kinds without an entry stay
	// local even when a remote store is configured. Omitting the section
	// uses DefaultTables.
	Tables map[string]string `yaml:"tables"`
}

// LocalConfig selects where local blobs live.
type LocalConfig struct {
	// Backend is one of file, redis or memory.
	Backend string `yaml:"backend"`

	// Dir holds one file per kind (file backend).
	Dir string `yaml:"dir,omitempty"`

	// Redis connection (redis backend).
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// RemoteConfig selects the relational store.
type RemoteConfig struct {
	// Driver is empty, sqlite or cassandra.
	Driver string `yaml:"driver"`

	// DSN is the SQLite database path (sqlite driver).
	DSN string `yaml:"dsn,omitempty"`

	// Cassandra cluster (cassandra driver).
	Hosts          []string      `yaml:"hosts,omitempty"`
	Keyspace       string        `yaml:"keyspace,omitempty"`
	Consistency    string        `yaml:"consistency,omitempty"`
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`
}

// Enabled reports whether a remote store is configured.
func (r RemoteConfig) Enabled() bool {
	return r.Driver != DriverNone
}

// DefaultTables is the kind to table mapping used when the file has no
// tables section. News and feedback have no table and always stay local.
func DefaultTables() map[string]string {
	return map[string]string{
		string(entity.KindFamily):         "family",
		string(entity.KindEvents):         "events",
		string(entity.KindShopping):       "shopping",
		string(entity.KindHouseholdTasks): "household_tasks",
		string(entity.KindPersonalTasks):  "personal_tasks",
		string(entity.KindMealPlans):      "meal_plans",
		string(entity.KindMealRequests):   "meal_requests",
		string(entity.KindRecipes):        "recipes",
		string(entity.KindWeatherFavs):    "weather_favs",
	}
}

// Default returns a configuration that keeps everything in files under
// .hearth with no remote store.
func Default() *Config {
	return &Config{
		Local:  LocalConfig{Backend: BackendFile, Dir: ".hearth"},
		Tables: DefaultTables(),
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Tables = nil

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if cfg.Tables == nil {
		cfg.Tables = DefaultTables()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks backend, driver and table settings.
func (c *Config) Validate() error {
	switch c.Local.Backend {
	case BackendFile:
		if c.Local.Dir == "" {
			return fmt.Errorf("local.dir is required for the file backend")
		}
	case BackendRedis:
		if c.Local.Addr == "" {
			return fmt.Errorf("local.addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("local.backend %q: must be file, redis or memory", c.Local.Backend)
	}

	switch c.Remote.Driver {
	case DriverNone:
	case DriverSQLite:
		if c.Remote.DSN == "" {
			return fmt.Errorf("remote.dsn is required for the sqlite driver")
		}
	case DriverCassandra:
		if len(c.Remote.Hosts) == 0 {
			return fmt.Errorf("remote.hosts is required for the cassandra driver")
		}
		if c.Remote.Keyspace == "" {
			return fmt.Errorf("remote.keyspace is required for the cassandra driver")
		}
	default:
		return fmt.Errorf("remote.driver %q: must be empty, sqlite or cassandra", c.Remote.Driver)
	}

	seen := make(map[string]string, len(c.Tables))
	kinds := make([]string, 0, len(c.Tables))
	for kind := range c.Tables {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		name := c.Tables[kind]
		if _, err := entity.ParseKind(kind); err != nil {
			return fmt.Errorf("tables: %w", err)
		}
		if name == "" {
			return fmt.Errorf("tables.%s: table name is empty", kind)
		}
		if !identPattern.MatchString(name) {
			return fmt.Errorf("tables.%s: %q is not a valid table name", kind, name)
		}
		if other, dup := seen[name]; dup {
			return fmt.Errorf("tables.%s: table %q is already used by %s", kind, name, other)
		}
		seen[name] = kind
	}
	return nil
}

// TableMap returns Tables keyed by entity.Kind. Call after Validate.
func (c *Config) TableMap() map[entity.Kind]string {
	out := make(map[entity.Kind]string, len(c.Tables))
	for kind, name := range c.Tables {
		out[entity.Kind(kind)] = name
	}
	return out
}
