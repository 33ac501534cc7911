package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JOBTRACKER_HOME", home)
	unsetEnv(t, "JOBTRACKER_DB", "JOBTRACKER_ADDR", "JOBTRACKER_CORS_ORIGINS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":5000" {
		t.Fatalf("listen addr = %q, want :5000", cfg.ListenAddr)
	}
	wantDB := filepath.Join(home, "db", "job_tracker.sqlite")
	if cfg.DatabasePath != wantDB {
		t.Fatalf("database path = %q, want %q", cfg.DatabasePath, wantDB)
	}
	if !cfg.AllowsAnyOrigin() {
		t.Fatal("expected default config to allow any origin")
	}
	if _, err := os.Stat(filepath.Join(home, "config.toml")); err != nil {
		t.Fatalf("expected config.toml to be written: %v", err)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JOBTRACKER_HOME", home)
	unsetEnv(t, "JOBTRACKER_DB", "JOBTRACKER_ADDR", "JOBTRACKER_CORS_ORIGINS", "GIN_MODE")

	contents := `listen_addr = ":9090"
database_path = "/tmp/tracker.sqlite"
allowed_origins = ["http://localhost:3000"]
gin_mode = "debug"
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(contents), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("listen addr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.DatabasePath != "/tmp/tracker.sqlite" {
		t.Fatalf("database path = %q", cfg.DatabasePath)
	}
	if cfg.AllowsAnyOrigin() {
		t.Fatal("did not expect wildcard origin")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("allowed origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("JOBTRACKER_HOME", home)
	t.Setenv("JOBTRACKER_ADDR", ":7000")
	t.Setenv("JOBTRACKER_DB", filepath.Join(home, "override.sqlite"))
	t.Setenv("JOBTRACKER_CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":7000" {
		t.Fatalf("listen addr = %q, want :7000", cfg.ListenAddr)
	}
	if cfg.DatabasePath != filepath.Join(home, "override.sqlite") {
		t.Fatalf("database path = %q", cfg.DatabasePath)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("allowed origins = %v, want 2 entries", cfg.AllowedOrigins)
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	t.Setenv("JOBTRACKER_HOME", t.TempDir())
	unsetEnv(t, "JOBTRACKER_DB", "JOBTRACKER_ADDR", "JOBTRACKER_CORS_ORIGINS")
	t.Chdir(t.TempDir())

	if _, err := Load(); err != nil {
		t.Fatalf("load without .env: %v", err)
	}
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	t.Setenv("JOBTRACKER_HOME", t.TempDir())
	unsetEnv(t, "JOBTRACKER_DB", "JOBTRACKER_ADDR", "JOBTRACKER_CORS_ORIGINS")

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("JOBTRACKER_ADDR=\":6000\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "load .env") {
		t.Fatalf("error = %v, want a .env load error", err)
	}
}

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}
