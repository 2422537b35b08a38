package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults around the required secret", func(t *testing.T) {
		t.Setenv("PAWDESK_SESSION_SECRET", "test-secret")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL, got %v", cfg.SessionTTL)
		}
		if cfg.InviteTTL != 7*24*time.Hour {
			t.Fatalf("expected default invite TTL, got %v", cfg.InviteTTL)
		}
	})

	t.Run("fails without a session secret", func(t *testing.T) {
		t.Setenv("PAWDESK_SESSION_SECRET", "")

		if _, err := Load(); err == nil {
			t.Fatal("expected an error for the missing secret")
		}
	})

	t.Run("honours overrides", func(t *testing.T) {
		t.Setenv("PAWDESK_SESSION_SECRET", "test-secret")
		t.Setenv("PAWDESK_HTTP_PORT", "9090")
		t.Setenv("PAWDESK_SESSION_TTL", "1h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.HTTPPort != 9090 || cfg.SessionTTL != time.Hour {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("rejects an out-of-range port", func(t *testing.T) {
		t.Setenv("PAWDESK_SESSION_SECRET", "test-secret")
		t.Setenv("PAWDESK_HTTP_PORT", "70000")

		if _, err := Load(); err == nil {
			t.Fatal("expected an error for the invalid port")
		}
	})
}
