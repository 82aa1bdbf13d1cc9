package config

import (
	"os"
	"testing"
	"time"
)

func unsetPortopsEnv() {
	_ = os.Unsetenv("PORTOPS_DB_DRIVER")
	_ = os.Unsetenv("PORTOPS_HTTP_PORT")
	_ = os.Unsetenv("PORTOPS_LOCK_TIMEOUT")
	_ = os.Unsetenv("PORTOPS_POSTGRES_DSN")
	_ = os.Unsetenv("PORTOPS_SQLITE_PATH")
}

func TestConfigLoad_Defaults(t *testing.T) {
	unsetPortopsEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "memory" || cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LockTimeout != 5*time.Second || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected duration defaults: %+v", cfg)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	unsetPortopsEnv()
	_ = os.Setenv("PORTOPS_DB_DRIVER", "sqlite")
	_ = os.Setenv("PORTOPS_SQLITE_PATH", "/tmp/ops.db")
	_ = os.Setenv("PORTOPS_LOCK_TIMEOUT", "250ms")
	defer unsetPortopsEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.SQLitePath != "/tmp/ops.db" {
		t.Fatalf("env override failed: %+v", cfg)
	}
	if cfg.LockTimeout != 250*time.Millisecond {
		t.Fatalf("lock timeout override failed, got %s", cfg.LockTimeout)
	}
}

func TestConfigLoad_PostgresRequiresDSN(t *testing.T) {
	unsetPortopsEnv()
	_ = os.Setenv("PORTOPS_DB_DRIVER", "postgres")
	defer unsetPortopsEnv()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for postgres driver without DSN")
	}
}

func TestConfigLoad_UnknownDriver(t *testing.T) {
	unsetPortopsEnv()
	_ = os.Setenv("PORTOPS_DB_DRIVER", "oracle")
	defer unsetPortopsEnv()

	if _, err := New(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
