package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WOO_URL", "https://store.example.com")
	t.Setenv("WOO_CONSUMER_KEY", "ck")
	t.Setenv("WOO_CONSUMER_SECRET", "cs")
	t.Setenv("EBAY_CLIENT_ID", "client-id")
	t.Setenv("EBAY_CLIENT_SECRET", "client-secret")
	t.Setenv("EBAY_REFRESH_TOKEN", "refresh")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("EBAY_ENV", "")
	t.Setenv("EBAY_MARKETPLACE_ID", "")
	t.Setenv("SYNC_HISTORY_DB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EbayEnv != "production" || cfg.Sandbox() {
		t.Errorf("env = %q, sandbox = %v", cfg.EbayEnv, cfg.Sandbox())
	}
	if cfg.MarketplaceID != "EBAY_AU" {
		t.Errorf("marketplace = %q", cfg.MarketplaceID)
	}
	if cfg.Currency != "AUD" || cfg.Condition != "NEW" {
		t.Errorf("currency = %q condition = %q", cfg.Currency, cfg.Condition)
	}
	if cfg.LocationKey != "default-au" || cfg.ShipCountry != "AU" {
		t.Errorf("location = %q country = %q", cfg.LocationKey, cfg.ShipCountry)
	}
	if cfg.HistoryDBPath != "" {
		t.Errorf("history path = %q, want disabled", cfg.HistoryDBPath)
	}
}

func TestLoadSandbox(t *testing.T) {
	setRequired(t)
	t.Setenv("EBAY_ENV", "sandbox")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Sandbox() {
		t.Error("expected sandbox environment")
	}
}

func TestLoadReportsAllMissingVars(t *testing.T) {
	for _, key := range []string{
		"WOO_URL", "WOO_CONSUMER_KEY", "WOO_CONSUMER_SECRET",
		"EBAY_CLIENT_ID", "EBAY_CLIENT_SECRET", "EBAY_REFRESH_TOKEN",
	} {
		t.Setenv(key, "")
	}

	_, err := Load()
	if err == nil {
		t.Fatal("expected error with nothing configured")
	}
	for _, key := range []string{"WOO_URL", "EBAY_REFRESH_TOKEN"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not name %s", err, key)
		}
	}
}

func TestLoadPartialConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("EBAY_REFRESH_TOKEN", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "EBAY_REFRESH_TOKEN") {
		t.Errorf("error = %v", err)
	}
	if strings.Contains(err.Error(), "WOO_URL") {
		t.Errorf("error names configured vars: %v", err)
	}
}
