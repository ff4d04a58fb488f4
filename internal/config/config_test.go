package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TokenHeader != "Authorization" {
		t.Fatalf("unexpected token header %q", cfg.TokenHeader)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl %v", cfg.TokenTTL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BASE_URL", "https://api.example.com")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("STORAGE_TYPE", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL != "https://api.example.com" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if cfg.StorageType != "memory" {
		t.Fatalf("unexpected storage type %q", cfg.StorageType)
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}
