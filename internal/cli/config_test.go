package cli

import (
	"os"
	"path/filepath"
	"testing"

	"reviewsense/config"
)

func TestWriteDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviewsense.yaml")

	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := config.DefaultConfig()
	if cfg.Server.Addr != want.Server.Addr {
		t.Errorf("expected addr %q, got %q", want.Server.Addr, cfg.Server.Addr)
	}
	if cfg.Logging.Level != want.Logging.Level {
		t.Errorf("expected log level %q, got %q", want.Logging.Level, cfg.Logging.Level)
	}
}

func TestWriteDefaultConfig_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewsense.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeDefaultConfig(path, false); err == nil {
		t.Fatal("expected error for existing file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "server:\n  addr: \":9000\"\n" {
		t.Errorf("existing file was modified: %q", data)
	}

	if err := writeDefaultConfig(path, true); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != config.DefaultConfig().Server.Addr {
		t.Errorf("expected default addr after --force, got %q", cfg.Server.Addr)
	}
}
