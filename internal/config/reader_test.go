package config

import (
	"testing"
	"time"
)

func TestEnvReaderDefaults(t *testing.T) {
	t.Setenv("ENV", EnvLocal)
	t.Setenv("JWT_SIGNING_KEY", "secret")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("read env: %v", err)
	}
	if cfg.StorageDriver != StorageMongo {
		t.Fatalf("expected mongo driver, got %q", cfg.StorageDriver)
	}
	if cfg.HTTP.Port != "5000" {
		t.Fatalf("unexpected port: %q", cfg.HTTP.Port)
	}
	if cfg.JWT.AccessTokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %v", cfg.JWT.AccessTokenTTL)
	}
	if len(cfg.CORS.AllowOrigins) != 1 || cfg.CORS.AllowOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORS.AllowOrigins)
	}
}

func TestEnvReaderSplitsOrigins(t *testing.T) {
	t.Setenv("ENV", EnvProd)
	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("read env: %v", err)
	}
	if len(cfg.CORS.AllowOrigins) != 2 || cfg.CORS.AllowOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORS.AllowOrigins)
	}
}

func TestEnvReaderRejectsUnknownDriver(t *testing.T) {
	t.Setenv("ENV", EnvDev)
	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	if _, err := NewEnvReader().Read(); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
