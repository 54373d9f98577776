package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("FAROS_CONFIG_DIR", t.TempDir())
	t.Setenv("FAROS_API_URL", "")
	t.Setenv("FAROS_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != defaultServerURL {
		t.Fatalf("ServerURL = %q, want default %q", cfg.ServerURL, defaultServerURL)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FAROS_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"serverUrl":"https://file.example","logLevel":"warn"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FAROS_API_URL", "https://env.example/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://env.example" {
		t.Fatalf("ServerURL = %q, want env override without trailing slash", cfg.ServerURL)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want file value", cfg.LogLevel)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("FAROS_CONFIG_DIR", t.TempDir())
	t.Setenv("FAROS_API_URL", "")

	if err := Save(&Config{ServerURL: "https://faros.example"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://faros.example" {
		t.Fatalf("ServerURL = %q after round trip", cfg.ServerURL)
	}
}
