package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("IMPORT_YEAR", "")
	t.Setenv("AUTH_REMOTE_TIMEOUT", "")
	t.Setenv("COMMISSION_DEDUPE", "")

	cfg := Load()

	if cfg.Addr() != ":8080" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
	if cfg.ImportYear != 2024 {
		t.Fatalf("import year = %d", cfg.ImportYear)
	}
	if cfg.AuthRemoteTimeout != 10*time.Second {
		t.Fatalf("remote timeout = %v", cfg.AuthRemoteTimeout)
	}
	if cfg.CommissionDedupe {
		t.Fatal("dedupe should be off by default")
	}
	if cfg.Backup.Enabled() {
		t.Fatal("backup should be disabled without bucket")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMPORT_YEAR", "2025")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("COMMISSION_DEDUPE", "yes")
	t.Setenv("BACKUP_BUCKET", "snapshots")
	t.Setenv("STORAGE_DRIVER", "MEMORY")

	cfg := Load()

	if cfg.Addr() != ":9090" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
	if cfg.ImportYear != 2025 {
		t.Fatalf("import year = %d", cfg.ImportYear)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session ttl = %v", cfg.SessionTTL)
	}
	if !cfg.CommissionDedupe {
		t.Fatal("dedupe should be on")
	}
	if !cfg.Backup.Enabled() {
		t.Fatal("backup should be enabled")
	}
	if cfg.StorageDriver != "memory" {
		t.Fatalf("driver = %q", cfg.StorageDriver)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("IMPORT_YEAR", "abc")
	t.Setenv("METRICS_REFRESH", "-5s")

	cfg := Load()

	if cfg.ImportYear != 2024 {
		t.Fatalf("import year = %d", cfg.ImportYear)
	}
	if cfg.MetricsRefresh != 30*time.Second {
		t.Fatalf("refresh = %v", cfg.MetricsRefresh)
	}
}
