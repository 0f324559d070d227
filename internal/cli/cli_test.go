package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kbgraph/pkg/config"
	"github.com/matzehuels/kbgraph/pkg/graph"
)

func run(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()
	for _, name := range []string{"layout", "render", "explore", "serve", "sample", "config", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSampleCommand(t *testing.T) {
	c := newTestCLI(t)

	out, err := run(t, c, "sample")
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	g, err := graph.ReadGraph(strings.NewReader(out))
	if err != nil {
		t.Fatalf("stdout is not a graph: %v", err)
	}
	if len(g.Nodes) != len(graph.SampleGraph().Nodes) {
		t.Errorf("nodes = %d", len(g.Nodes))
	}

	path := filepath.Join(t.TempDir(), "sample.json")
	if _, err := run(t, c, "sample", "-o", path); err != nil {
		t.Fatalf("sample -o: %v", err)
	}
	if _, err := graph.ReadGraphFile(path); err != nil {
		t.Errorf("read written sample: %v", err)
	}
}

func TestConfigInitAndLoad(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "kb.toml")

	if _, err := run(t, c, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := run(t, c, "--config", path, "config", "init"); err == nil {
		t.Error("second init should refuse to overwrite")
	}
	if _, err := run(t, c, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if len(cfg.Unknown) != 0 {
		t.Errorf("unknown keys in default config: %v", cfg.Unknown)
	}
	if cfg.Server.Addr != config.Default().Server.Addr {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}

	out, err := run(t, c, "--config", path, "config", "path")
	if err != nil || strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, %v", out, err)
	}

	out, err = run(t, c, "--config", path, "config", "show", "--toml")
	if err != nil || !strings.Contains(out, "[server]") {
		t.Errorf("config show --toml = %q, %v", out, err)
	}
}

func TestSetupWarnsOnUnknownKeys(t *testing.T) {
	c := newTestCLI(t)
	var logs syncBuffer
	c.Logger.SetOutput(&logs)

	path := filepath.Join(t.TempDir(), "kb.toml")
	if err := os.WriteFile(path, []byte("colour = \"red\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "--config", path, "config", "path"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(logs.String(), "colour") {
		t.Errorf("no warning for unknown key, logs: %q", logs.String())
	}
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "kb.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"tape\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, c, "--config", path, "config", "path"); err == nil {
		t.Error("expected error for invalid cache backend")
	}
}

func TestNewSource(t *testing.T) {
	c := newTestCLI(t)
	ctx := t.Context()

	src, closeSrc, err := c.newSource(ctx, "")
	if err != nil {
		t.Fatalf("newSource default: %v", err)
	}
	defer closeSrc()
	g, err := src.Fetch(ctx)
	if err != nil || len(g.Nodes) == 0 {
		t.Errorf("sample source fetch = %d nodes, %v", len(g.Nodes), err)
	}

	path := filepath.Join(t.TempDir(), "kb.json")
	if err := graph.WriteGraphFile(graph.SampleGraph(), path); err != nil {
		t.Fatal(err)
	}
	src, closeFile, err := c.newSource(ctx, path)
	if err != nil {
		t.Fatalf("newSource file: %v", err)
	}
	defer closeFile()
	if g, err := src.Fetch(ctx); err != nil || len(g.Edges) == 0 {
		t.Errorf("file source fetch = %d edges, %v", len(g.Edges), err)
	}
}
