package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":5000" {
		t.Errorf("expected Addr=:5000, got %s", cfg.Server.Addr)
	}
	if cfg.Server.MaxBodyBytes != 1<<20 {
		t.Errorf("expected MaxBodyBytes=1MiB, got %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Analysis.Stemmer != "porter" {
		t.Errorf("expected Stemmer=porter, got %s", cfg.Analysis.Stemmer)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("expected Backend=none, got %s", cfg.Cache.Backend)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected Workers=4, got %d", cfg.Batch.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reviewsense.yaml")

	content := `
server:
  addr: ":8080"
  read_timeout: 5s
cache:
  backend: memory
aspects:
  keywords:
    price: [price, bill]
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected Addr=:8080, got %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("expected ReadTimeout=5s, got %v", cfg.Server.ReadTimeout)
	}
	// untouched keys keep defaults
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("expected WriteTimeout=30s, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("expected Backend=memory, got %s", cfg.Cache.Backend)
	}
	if got := cfg.Aspects.Keywords["price"]; len(got) != 2 || got[1] != "bill" {
		t.Errorf("unexpected price keywords %v", got)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "reviewsense.yaml")
	if err := os.WriteFile(configPath, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".reviewsense"), 0755); err != nil {
		t.Fatal(err)
	}

	content := `
batch:
  workers: 8
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".reviewsense", "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Batch.Workers != 8 {
		t.Errorf("expected Workers=8, got %d", cfg.Batch.Workers)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("REVIEWSENSE_ADDR", ":9000")
	t.Setenv("REVIEWSENSE_MODEL_BUNDLE", "/srv/model.db")
	t.Setenv("REVIEWSENSE_LOG_LEVEL", "debug")
	t.Setenv("VALKEY_INIT_ADDRESS", "valkey:6379")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected Addr=:9000, got %s", cfg.Server.Addr)
	}
	if cfg.Model.Bundle != "/srv/model.db" {
		t.Errorf("expected Bundle=/srv/model.db, got %s", cfg.Model.Bundle)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
	if cfg.Cache.Valkey.Address != "valkey:6379" {
		t.Errorf("expected valkey address override, got %s", cfg.Cache.Valkey.Address)
	}
}

func TestLoadEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("REVIEWSENSE_MODEL_DIR=/opt/model\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REVIEWSENSE_MODEL_DIR", "")
	os.Unsetenv("REVIEWSENSE_MODEL_DIR")

	if err := LoadEnv(envPath); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("REVIEWSENSE_MODEL_DIR"); got != "/opt/model" {
		t.Errorf("expected /opt/model, got %q", got)
	}

	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should not fail: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Backend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown cache backend")
	}

	cfg = DefaultConfig()
	cfg.Server.MaxBodyBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero body limit")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewsense.yaml")

	cfg := DefaultConfig()
	cfg.Model.Dir = "/models/v2"
	cfg.Cache.TTL = 90 * time.Second
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Model.Dir != "/models/v2" {
		t.Errorf("expected Dir=/models/v2, got %s", loaded.Model.Dir)
	}
	if loaded.Cache.TTL != 90*time.Second {
		t.Errorf("expected TTL=90s, got %v", loaded.Cache.TTL)
	}
}
