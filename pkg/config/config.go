// Package config loads GraphStream settings from a TOML file.
//
// Settings are layered, lowest priority first:
//  1. Defaults from [Default]
//  2. The TOML file, if it exists
//  3. GRAPHSTREAM_* environment variables
//
// Example file:
//
//	[graph]
//	strict = false
//	auto_create = true
//
//	[redis]
//	addr = "localhost:6379"
//	prefix = "graphstream"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "graphstream"
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
	"time"

	"github.com/BurntSushi/toml"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

// Environment variables overriding file settings.
const (
	EnvRedisAddr     = "GRAPHSTREAM_REDIS_ADDR"
	EnvRedisPassword = "GRAPHSTREAM_REDIS_PASSWORD"
	EnvMongoURI      = "GRAPHSTREAM_MONGO_URI"
	EnvMongoDatabase = "GRAPHSTREAM_MONGO_DB"
	EnvListen        = "GRAPHSTREAM_LISTEN"
	EnvStrict        = "GRAPHSTREAM_STRICT"
)

// Config holds every setting.
type Config struct {
	Graph  Graph  `toml:"graph"`
	Redis  Redis  `toml:"redis"`
	Mongo  Mongo  `toml:"mongo"`
	Server Server `toml:"server"`
	Cache  Cache  `toml:"cache"`

	// Source is the file the config was read from, empty for defaults only.
	Source string `toml:"-"`
}

// Graph holds the policy of graphs created by the CLI and server.
type Graph struct {
	Strict      bool `toml:"strict"`
	AutoCreate  bool `toml:"auto_create"`
	Multigraph  bool `toml:"multigraph"`
	NullIsError bool `toml:"null_is_error"`
	ReplayAttrs bool `toml:"replay_attributes"`
}

// Redis configures the event mirror and the shared render cache.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// Mongo configures the snapshot archive.
type Mongo struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// Server configures the inspection API.
type Server struct {
	Listen       string   `toml:"listen"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Cache configures render and snapshot caching. Prefix scopes every key so
// installations can share one Redis.
type Cache struct {
	Disabled bool     `toml:"disabled"`
	TTL      Duration `toml:"ttl"`
	Prefix   string   `toml:"prefix"`
}

// Duration is a time.Duration written as a string such as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings: the strict single-graph policy of
// the core, no backends, and a local listener.
func Default() *Config {
	return &Config{
		Graph: Graph{Strict: true},
		Redis: Redis{Prefix: "graphstream"},
		Mongo: Mongo{Database: "graphstream"},
		Server: Server{
			Listen:       "localhost:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
		Cache: Cache{TTL: Duration{24 * time.Hour}, Prefix: "graphstream:"},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error; an empty path uses [DefaultPath].
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		_, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			cfg.Source = path
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without consulting the
// environment.
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvRedisPassword); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv(EnvMongoDatabase); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv(EnvListen); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv(EnvStrict); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return gserrors.Wrap(gserrors.ErrCodeInvalidConfig, err, "%s", EnvStrict)
		}
		c.Graph.Strict = strict
	}
	return nil
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Redis.DB < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "redis.db must not be negative")
	}
	if c.Mongo.URI != "" && c.Mongo.Database == "" {
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "mongo.database is required with mongo.uri")
	}
	if c.Server.Listen == "" {
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "server.listen is required")
	}
	if c.Cache.TTL.Duration < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// GraphOptions converts the graph section to construction options.
func (c *Config) GraphOptions() []graph.Option {
	opts := []graph.Option{
		graph.WithStrictChecking(c.Graph.Strict),
		graph.WithAutoCreate(c.Graph.AutoCreate),
	}
	if c.Graph.Multigraph {
		opts = append(opts, graph.WithMultigraph())
	}
	if c.Graph.NullIsError {
		opts = append(opts, graph.WithNullAttributesAreErrors())
	}
	if c.Graph.ReplayAttrs {
		opts = append(opts, graph.WithAttributeReplay())
	}
	return opts
}

// DefaultPath returns the XDG config file (~/.config/graphstream/config.toml),
// or an empty string when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "graphstream", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "graphstream", "config.toml")
}
