package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/graph"
	"github.com/matzehuels/kbgraph/pkg/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Source.URL != "sample" {
		t.Errorf("default source = %q, want sample", cfg.Source.URL)
	}
	if cfg.Render.Width != 900 || cfg.Render.Height != 600 {
		t.Errorf("default size = %vx%v", cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Viewport.MinHeight != 400 {
		t.Errorf("default min height = %v, want 400", cfg.Viewport.MinHeight)
	}
	if cfg.Layout.Iterations != layout.DefaultIterations {
		t.Errorf("default iterations = %d", cfg.Layout.Iterations)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("default cache backend = %q", cfg.Cache.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	if dir := Dir(); dir != "/tmp/test-xdg/kbgraph" {
		t.Errorf("Dir() = %q", dir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, _ := os.UserHomeDir()
	if dir := Dir(); dir != filepath.Join(home, ".config", "kbgraph") {
		t.Errorf("Dir() = %q", dir)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/test-cache")
	dir, err := CacheDir()
	if err != nil || dir != "/tmp/test-cache/kbgraph" {
		t.Errorf("CacheDir() = %q, %v", dir, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Style != Default().Render.Style {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := Load(""); err != nil {
		t.Fatalf("Load with no file at default path: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[source]
url = "https://kb.example.com/api/graph"
types = ["document", "topic"]
timeout = "3s"
[source.headers]
Authorization = "Bearer t"

[layout]
iterations = 50
seed = 7

[viewport]
delay = "250ms"

[render]
style = "dark"
formats = ["svg", "png"]

[cache]
backend = "redis"
[cache.redis]
url = "redis://localhost:6379/2"

[server]
addr = ":9000"
colour = "blue"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.URL != "https://kb.example.com/api/graph" || cfg.Source.Timeout != 3*time.Second {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Source.Headers["Authorization"] != "Bearer t" {
		t.Errorf("headers = %v", cfg.Source.Headers)
	}
	if cfg.Layout.Iterations != 50 || cfg.Layout.Seed != 7 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Gravity != layout.DefaultGravity {
		t.Error("unset layout keys should keep defaults")
	}
	if cfg.Viewport.Delay != 250*time.Millisecond || cfg.Viewport.MinHeight != 400 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.Redis.URL != "redis://localhost:6379/2" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Unknown) != 1 || cfg.Unknown[0] != "server.colour" {
		t.Errorf("Unknown = %v, want [server.colour]", cfg.Unknown)
	}

	opts := cfg.PipelineOptions()
	if len(opts.Types) != 2 || opts.Types[0] != graph.TypeDocument {
		t.Errorf("pipeline types = %v", opts.Types)
	}
	if opts.Style != "dark" || opts.Tuning.Iterations != 50 {
		t.Errorf("pipeline options = %+v", opts)
	}
	if got := len(cfg.ViewportOptions()); got != 3 {
		t.Errorf("ViewportOptions() returned %d options, want 3", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[render\nstyle = "},
		{"backend", "[cache]\nbackend = \"memcached\""},
		{"style", "[render]\nstyle = \"neon\""},
		{"format", "[render]\nformats = [\"gif\"]"},
		{"types", "[source]\ntypes = [\"planet\"]"},
		{"negative delay", "[viewport]\ndelay = \"-1s\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if kberrors.GetCode(err) == "" {
				t.Errorf("error without code: %v", err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Server.Addr = ":7000"
	cfg.Viewport.Delay = time.Second
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server.Addr != ":7000" || loaded.Viewport.Delay != time.Second {
		t.Errorf("round trip lost values: %+v %+v", loaded.Server, loaded.Viewport)
	}
	if len(loaded.Unknown) != 0 {
		t.Errorf("saved config has unknown keys: %v", loaded.Unknown)
	}
}
