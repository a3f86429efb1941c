package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every environment-sourced knob for a sync run.
type Config struct {
	// WooCommerce
	WooURL            string
	WooConsumerKey    string
	WooConsumerSecret string

	// eBay credentials
	EbayEnv          string // "sandbox" or "production"
	EbayClientID     string
	EbayClientSecret string
	EbayRefreshToken string

	// Marketplace
	MarketplaceID     string
	Currency          string
	DefaultCategoryID string
	Condition         string

	// Listing policies
	FulfillmentPolicyID string
	PaymentPolicyID     string
	ReturnPolicyID      string

	// Fulfillment location
	LocationKey      string
	ShipName         string
	ShipPhone        string
	ShipAddressLine1 string
	ShipCity         string
	ShipState        string
	ShipPostcode     string
	ShipCountry      string

	// Optional SQLite file for per-run history. Empty disables persistence.
	HistoryDBPath string
}

// Load reads configuration from the process environment, after loading a
// .env file if one is present.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		WooURL:            getEnv("WOO_URL", ""),
		WooConsumerKey:    getEnv("WOO_CONSUMER_KEY", ""),
		WooConsumerSecret: getEnv("WOO_CONSUMER_SECRET", ""),

		EbayEnv:          getEnv("EBAY_ENV", "production"),
		EbayClientID:     getEnv("EBAY_CLIENT_ID", ""),
		EbayClientSecret: getEnv("EBAY_CLIENT_SECRET", ""),
		EbayRefreshToken: getEnv("EBAY_REFRESH_TOKEN", ""),

		MarketplaceID:     getEnv("EBAY_MARKETPLACE_ID", "EBAY_AU"),
		Currency:          getEnv("EBAY_CURRENCY", "AUD"),
		DefaultCategoryID: getEnv("EBAY_DEFAULT_CATEGORY_ID", ""),
		Condition:         getEnv("EBAY_CONDITION", "NEW"),

		FulfillmentPolicyID: getEnv("EBAY_FULFILLMENT_POLICY_ID", ""),
		PaymentPolicyID:     getEnv("EBAY_PAYMENT_POLICY_ID", ""),
		ReturnPolicyID:      getEnv("EBAY_RETURN_POLICY_ID", ""),

		LocationKey:      getEnv("EBAY_LOCATION_KEY", "default-au"),
		ShipName:         getEnv("EBAY_SHIP_NAME", ""),
		ShipPhone:        getEnv("EBAY_SHIP_PHONE", ""),
		ShipAddressLine1: getEnv("EBAY_SHIP_ADDRESS_LINE1", ""),
		ShipCity:         getEnv("EBAY_SHIP_CITY", ""),
		ShipState:        getEnv("EBAY_SHIP_STATE", ""),
		ShipPostcode:     getEnv("EBAY_SHIP_POSTCODE", ""),
		ShipCountry:      getEnv("EBAY_SHIP_COUNTRY", "AU"),

		HistoryDBPath: getEnv("SYNC_HISTORY_DB", ""),
	}

	var missing []string
	for _, req := range []struct{ name, value string }{
		{"WOO_URL", cfg.WooURL},
		{"WOO_CONSUMER_KEY", cfg.WooConsumerKey},
		{"WOO_CONSUMER_SECRET", cfg.WooConsumerSecret},
		{"EBAY_CLIENT_ID", cfg.EbayClientID},
		{"EBAY_CLIENT_SECRET", cfg.EbayClientSecret},
		{"EBAY_REFRESH_TOKEN", cfg.EbayRefreshToken},
	} {
		if req.value == "" {
			missing = append(missing, req.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Sandbox reports whether the run targets the eBay sandbox environment.
func (c *Config) Sandbox() bool {
	return c.EbayEnv == "sandbox"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
