package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no config.toml in sight

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != "shipdesk.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("log config = %+v", cfg.Log)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHIPDESK_DATABASE_PATH", ":memory:")
	t.Setenv("SHIPDESK_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("database path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestInvalidLogLevelRejected(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHIPDESK_LOG_LEVEL", "loud")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid log level")
	}
}
