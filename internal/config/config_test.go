package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := Default()
	if cfg.Server.Addr != want.Server.Addr {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, want.Server.Addr)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Canvas.Width != 1920 || cfg.Canvas.Height != 1080 {
		t.Errorf("Canvas = %dx%d, want 1920x1080", cfg.Canvas.Width, cfg.Canvas.Height)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9000"

[storage]
backend = "redis"

[storage.redis]
addr = "redis.internal:6379"
db = 2

[enrich]
meta_endpoint = "https://meta.internal/preview"
timeout_seconds = 3

[canvas]
width = 2560
height = 1440
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "redis" || cfg.Storage.Redis.Addr != "redis.internal:6379" || cfg.Storage.Redis.DB != 2 {
		t.Errorf("redis config = %+v, want overrides applied", cfg.Storage.Redis)
	}
	if cfg.Enrich.MetaEndpoint != "https://meta.internal/preview" {
		t.Errorf("MetaEndpoint = %q, want override", cfg.Enrich.MetaEndpoint)
	}
	if cfg.EnrichTimeout().Seconds() != 3 {
		t.Errorf("EnrichTimeout = %v, want 3s", cfg.EnrichTimeout())
	}
	if cfg.Canvas.Width != 2560 {
		t.Errorf("Canvas.Width = %d, want 2560", cfg.Canvas.Width)
	}
	// Unset fields keep their defaults.
	if cfg.Enrich.FaviconService == "" {
		t.Error("FaviconService should keep its default when unset")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[storage]\nbackend = \"dynamo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with unknown backend should fail")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\naddr=:::"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() with malformed TOML should fail")
	}
}

func TestDataDirDefault(t *testing.T) {
	cfg := Default()
	if cfg.DataDir() == "" {
		t.Error("DataDir() should never be empty")
	}

	cfg.Storage.Dir = "/tmp/custom"
	if cfg.DataDir() != "/tmp/custom" {
		t.Errorf("DataDir() = %q, want configured dir", cfg.DataDir())
	}
}
