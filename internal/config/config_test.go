package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
database:
  path: "/data/ironlog.db"
backup:
  dir: "/data/backups"
log:
  level: "debug"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/data/ironlog.db" {
		t.Errorf("database.path = %q, want %q", cfg.Database.Path, "/data/ironlog.db")
	}
	if cfg.Backup.Dir != "/data/backups" {
		t.Errorf("backup.dir = %q, want %q", cfg.Backup.Dir, "/data/backups")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
}

// TestLoadMissingFileUsesDefaults verifies a missing config file is not an
// error and yields the defaults.
func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path == "" {
		t.Error("default database.path should not be empty")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default log.level = %q, want %q", cfg.Log.Level, "info")
	}
}

// TestEnvOverride verifies that IRONLOG_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("IRONLOG_DB_PATH", "/override/ironlog.db")
	t.Setenv("IRONLOG_LOG_LEVEL", "warn")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/override/ironlog.db" {
		t.Errorf("database.path = %q, want override", cfg.Database.Path)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "warn")
	}
	// Unchanged fields should keep YAML values
	if cfg.Backup.Dir != "/data/backups" {
		t.Errorf("backup.dir = %q, want %q", cfg.Backup.Dir, "/data/backups")
	}
}

// TestValidationBadLogLevel verifies an unknown log level is rejected.
func TestValidationBadLogLevel(t *testing.T) {
	yaml := `
database:
  path: "/data/ironlog.db"
backup:
  dir: "/data/backups"
log:
  level: "loud"
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Fatal("expected validation error for bad log level")
	}
}

// TestValidationEmptyDatabasePath verifies an explicitly empty path is rejected.
func TestValidationEmptyDatabasePath(t *testing.T) {
	yaml := `
database:
  path: ""
backup:
  dir: "/data/backups"
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Fatal("expected validation error for empty database path")
	}
}
