package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "craftworks.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" || cfg.AutoSave {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
content = ["extra.yaml", " more.jsonc "]
archive = "workshop.cbor"
`)
	t.Setenv("CRAFTWORKS_LOG_FORMAT", "JSON")
	t.Setenv("CRAFTWORKS_AUTOSAVE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" || !cfg.AutoSave || cfg.Archive != "workshop.cbor" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !slices.Equal(cfg.Content, []string{"extra.yaml", "more.jsonc"}) {
		t.Fatalf("unexpected content paths %v", cfg.Content)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `log_level = "debug"`)
	t.Setenv("CRAFTWORKS_LOG_LEVEL", "warn")
	t.Setenv("CRAFTWORKS_CONTENT", "a.yaml,b.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "warn" || len(cfg.Content) != 2 {
		t.Fatalf("expected env to win, got %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{name: "unknown key", body: `colour = "blue"`, want: "unknown key"},
		{name: "bad level", body: `log_level = "loud"`, want: "log_level"},
		{name: "bad format", env: map[string]string{"CRAFTWORKS_LOG_FORMAT": "xml"}, want: "log_format"},
		{name: "autosave without archive", body: `autosave = true`, want: "archive"},
		{name: "skip builtin without content", body: `skip_builtin = true`, want: "content"},
		{name: "bad bool", env: map[string]string{"CRAFTWORKS_AUTOSAVE": "maybe"}, want: "parse env"},
		{name: "bad toml", body: `log_level = `, want: "load config"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tc.body)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
