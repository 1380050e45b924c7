package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adire-living/backend-adire/internal/pricing"
)

func TestLoadForTests(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":            "postgres://localhost:5432/adire",
		"REDIS_URL":               "redis://localhost:6379/0",
		"PORT":                    "9090",
		"PRICING_VAT_BPS":         "800",
		"DELIVERY_FEES":           "Lagos=3500, Ibadan=6000",
		"QUOTE_RATE_LIMIT_WINDOW": "30s",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 30*time.Second, cfg.QuoteRateLimitWindow)

	rt := cfg.RateTable()
	require.Equal(t, int64(800), rt.VATRateBPS)
	require.Equal(t, pricing.Money(3_500), rt.DeliveryFees["Lagos"])
	require.Equal(t, pricing.Money(6_000), rt.DeliveryFees["Ibadan"])
	// Untouched defaults survive overrides.
	require.Equal(t, pricing.Money(5_000), rt.DeliveryFees["Abuja"])
	require.Equal(t, int64(7000), rt.DownPaymentRateBPS)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
	})
	require.Error(t, err)
}

func TestParseMoneyMapIgnoresGarbage(t *testing.T) {
	m := parseMoneyMap("Lagos=3000,broken,Abuja=-5,=10,Kano=7000")
	require.Equal(t, map[string]int64{"Lagos": 3000, "Kano": 7000}, m)
}
