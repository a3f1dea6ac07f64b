package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := strings.Join([]string{
		`backend = "file"`,
		`store_path = "/tmp/lazytodo"`,
		`default_sort = "priority"`,
		`web_port = 9090`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.StorePath != "/tmp/lazytodo" || cfg.DefaultSort != "priority" || cfg.WebPort != 9090 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.StorageKey != "tasks" || cfg.LogLevel != "info" {
		t.Fatalf("expected unset keys to keep defaults, got %+v", cfg)
	}
}

func TestLoadRejectsUnknownKeysAndBackends(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown key":     `colour = "blue"`,
		"unknown backend": `backend = "postgres"`,
		"bad port":        `web_port = 70000`,
		"bad toml":        `backend = `,
	}
	for name, content := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "-")+".toml")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Backend = BackendMemory
	want.LogFormat = "json"

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestResolveStorePath(t *testing.T) {
	configPath := filepath.Join("/etc", "lazytodo", "config.toml")

	cfg := Default()
	cfg.ResolveStorePath(configPath)
	if cfg.StorePath != filepath.Join("/etc", "lazytodo", "lazytodo.db") {
		t.Fatalf("unexpected sqlite path %q", cfg.StorePath)
	}

	cfg = Default()
	cfg.Backend = BackendFile
	cfg.ResolveStorePath(configPath)
	if cfg.StorePath != filepath.Join("/etc", "lazytodo", "data") {
		t.Fatalf("unexpected file path %q", cfg.StorePath)
	}

	cfg = Default()
	cfg.StorePath = "/custom.db"
	cfg.ResolveStorePath(configPath)
	if cfg.StorePath != "/custom.db" {
		t.Fatalf("expected explicit path to win, got %q", cfg.StorePath)
	}
}
