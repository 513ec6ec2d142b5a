package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.ShopAPI.BaseURL != "https://shop.example.com/api" {
		t.Fatalf("unexpected shop API base URL: %q", cfg.ShopAPI.BaseURL)
	}

	if got := cfg.ShopAPI.Timeout; got != 15*time.Second {
		t.Fatalf("expected default shop API timeout 15s, got %v", got)
	}

	if cfg.Checkout.Policy() != ProfitPolicyLegacy {
		t.Fatalf("expected default legacy profit policy, got %q", cfg.Checkout.Policy())
	}

	if !cfg.DB.UseSQLite() {
		t.Fatal("expected sqlite driver by default")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RejectsUnknownProfitPolicy(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvProfitPolicy, "creative")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown profit policy to fail")
	}
}

func TestCheckoutPolicyNormalized(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvProfitPolicy, "  MARGIN ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Checkout.Policy() != ProfitPolicyMargin {
		t.Fatalf("expected margin policy, got %q", cfg.Checkout.Policy())
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvJWTSecret, "secret")
	t.Setenv(EnvJWTIssuer, "tillpoint")
	t.Setenv(EnvShopAPIBaseURL, "https://shop.example.com/api")
	os.Unsetenv(EnvProfitPolicy)
}
