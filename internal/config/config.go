package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/adire-living/backend-adire/internal/pricing"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	// Rate table overrides. Percentages are basis points; fees and prices
	// are minor currency units. Zero means "use the built-in default".
	VATRateBPS         int64
	ServiceFeeRateBPS  int64
	InsuranceRateBPS   int64
	RentalRateBPS      int64
	DownPaymentRateBPS int64
	LateFeeInstallment int64
	LateFeeRental      int64
	DeliveryFees       map[string]int64
	TruckDeliveryFees  map[string]int64
	DeliveryStrict     bool

	QuoteRateLimitWindow time.Duration
	QuoteRateLimitMax    int
	IdempotencyTTL       time.Duration
	PlanCacheTTL         time.Duration

	ReminderWindow   time.Duration
	ReminderLockTTL  time.Duration
	ReminderCronSpec string
	EmailEnabled     bool
	EmailFrom        string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		VATRateBPS:         parseInt64(k.String("PRICING_VAT_BPS")),
		ServiceFeeRateBPS:  parseInt64(k.String("PRICING_SERVICE_FEE_BPS")),
		InsuranceRateBPS:   parseInt64(k.String("PRICING_INSURANCE_BPS")),
		RentalRateBPS:      parseInt64(k.String("PRICING_RENTAL_BPS")),
		DownPaymentRateBPS: parseInt64(k.String("PRICING_DOWN_PAYMENT_BPS")),
		LateFeeInstallment: parseInt64(k.String("PRICING_LATE_FEE_INSTALLMENT")),
		LateFeeRental:      parseInt64(k.String("PRICING_LATE_FEE_RENTAL")),
		DeliveryFees:       parseMoneyMap(k.String("DELIVERY_FEES")),
		TruckDeliveryFees:  parseMoneyMap(k.String("DELIVERY_TRUCK_FEES")),
		DeliveryStrict:     parseBool(k.String("DELIVERY_STRICT_REGIONS")),

		QuoteRateLimitWindow: parseDuration(k.String("QUOTE_RATE_LIMIT_WINDOW"), "1m"),
		QuoteRateLimitMax:    int(parseInt64Default(k.String("QUOTE_RATE_LIMIT_MAX"), 120)),
		IdempotencyTTL:       parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		PlanCacheTTL:         parseDuration(k.String("PLAN_CACHE_TTL"), "10m"),

		ReminderWindow:   parseDuration(k.String("REMINDER_WINDOW"), "72h"),
		ReminderLockTTL:  parseDuration(k.String("REMINDER_LOCK_TTL"), "1m"),
		ReminderCronSpec: valueOrDefault(k.String("REMINDER_CRON"), "@every 6h"),
		EmailEnabled:     parseBool(k.String("EMAIL_ENABLED")),
		EmailFrom:        strings.TrimSpace(k.String("EMAIL_FROM")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}

	return cfg, nil
}

// RateTable materialises the pricing configuration, applying overrides on top
// of the built-in defaults. The result is loaded once at startup and treated
// as immutable for the life of the process.
func (c *Config) RateTable() pricing.RateTable {
	rt := pricing.DefaultRateTable()
	if c.VATRateBPS > 0 {
		rt.VATRateBPS = c.VATRateBPS
	}
	if c.ServiceFeeRateBPS > 0 {
		rt.ServiceFeeRateBPS = c.ServiceFeeRateBPS
	}
	if c.InsuranceRateBPS > 0 {
		rt.InsuranceRateBPS = c.InsuranceRateBPS
	}
	if c.RentalRateBPS > 0 {
		rt.RentalRateBPS = c.RentalRateBPS
	}
	if c.DownPaymentRateBPS > 0 {
		rt.DownPaymentRateBPS = c.DownPaymentRateBPS
	}
	if c.LateFeeInstallment > 0 {
		rt.LateFeeInstallment = pricing.Money(c.LateFeeInstallment)
	}
	if c.LateFeeRental > 0 {
		rt.LateFeeRental = pricing.Money(c.LateFeeRental)
	}
	for region, fee := range c.DeliveryFees {
		rt.DeliveryFees[pricing.NormalizeRegion(region)] = pricing.Money(fee)
	}
	for region, fee := range c.TruckDeliveryFees {
		rt.TruckDeliveryFees[pricing.NormalizeRegion(region)] = pricing.Money(fee)
	}
	return rt
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseMoneyMap parses "Lagos=3000,Abuja=5000" style region fee tables.
func parseMoneyMap(value string) map[string]int64 {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	out := map[string]int64{}
	for _, pair := range strings.Split(value, ",") {
		key, raw, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		fee, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || fee < 0 {
			continue
		}
		key = strings.TrimSpace(key)
		if key != "" {
			out[key] = fee
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt64(value string) int64 {
	return parseInt64Default(value, 0)
}

func parseInt64Default(value string, fallback int64) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
