package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gserrors "github.com/matzehuels/graphstream/pkg/errors"
	"github.com/matzehuels/graphstream/pkg/graph"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Graph.Strict || cfg.Graph.AutoCreate {
		t.Errorf("default graph policy = %+v", cfg.Graph)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[graph]
strict = false
auto_create = true
multigraph = true

[redis]
addr = "redis:6379"

[cache]
ttl = "90m"
prefix = "staging:"
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Graph.Strict || !cfg.Graph.AutoCreate || !cfg.Graph.Multigraph {
		t.Errorf("graph = %+v", cfg.Graph)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.Prefix != "graphstream" {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute || cfg.Cache.Prefix != "staging:" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Listen != "localhost:8080" {
		t.Errorf("unset sections should keep defaults, listen = %s", cfg.Server.Listen)
	}

	g := graph.New("g", cfg.GraphOptions()...)
	if g.StrictChecking() || !g.AutoCreate() || !g.Multigraph() {
		t.Error("GraphOptions() should carry the graph section")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `[graph`},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"negative db", "[redis]\ndb = -1"},
		{"mongo without database", "[mongo]\nuri = \"mongodb://x\"\ndatabase = \"\""},
		{"empty listen", "[server]\nlisten = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if !gserrors.Is(err, gserrors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[mongo]\nuri = \"mongodb://file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvMongoURI, "mongodb://env")
	t.Setenv(EnvStrict, "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %s", cfg.Source)
	}
	if cfg.Mongo.URI != "mongodb://env" {
		t.Errorf("environment should override the file, uri = %s", cfg.Mongo.URI)
	}
	if cfg.Graph.Strict {
		t.Error("GRAPHSTREAM_STRICT should override strict")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %s, want empty", cfg.Source)
	}
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv(EnvStrict, "maybe")
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !gserrors.Is(err, gserrors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != "/tmp/xdg/graphstream/config.toml" {
		t.Errorf("DefaultPath() = %s", got)
	}
}
