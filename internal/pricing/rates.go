package pricing

import (
	"strings"
	"unicode"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// bpsDenominator is the divisor for basis-point rate math.
const bpsDenominator = 10000

// DefaultRegionKey is the fallback key used when a delivery region is unknown.
const DefaultRegionKey = "DEFAULT"

// RateTable holds every percentage and flat fee used by the quote engine.
// It is loaded once at process start and must never be mutated afterwards;
// two quotes computed moments apart always see the same rates.
type RateTable struct {
	// VATRateBPS is the value-added tax rate in basis points.
	VATRateBPS int64
	// ServiceFeeRateBPS is the per-month financing charge applied to the
	// remaining balance under installment plans.
	ServiceFeeRateBPS int64
	// InsuranceRateBPS is the optional damage-insurance rate on the cart subtotal.
	InsuranceRateBPS int64
	// RentalRateBPS is the per-month rental rate for rent-to-own plans.
	RentalRateBPS int64
	// DownPaymentRateBPS is the fraction of the financed base paid immediately.
	DownPaymentRateBPS int64

	// LateFeeInstallment is the flat fee charged on an overdue installment.
	LateFeeInstallment Money
	// LateFeeRental is the flat fee charged on an overdue rental payment.
	LateFeeRental Money

	// DeliveryFees maps title-cased region names to flat delivery fees.
	// The DEFAULT key must be present.
	DeliveryFees map[string]Money
	// TruckDeliveryFees is the replacement table used when any cart line
	// requires truck delivery.
	TruckDeliveryFees map[string]Money
}

// DefaultRateTable returns the production rate configuration.
func DefaultRateTable() RateTable {
	return RateTable{
		VATRateBPS:         750,
		ServiceFeeRateBPS:  500,
		InsuranceRateBPS:   200,
		RentalRateBPS:      100,
		DownPaymentRateBPS: 7000,
		LateFeeInstallment: 2500,
		LateFeeRental:      2000,
		DeliveryFees: map[string]Money{
			"Lagos":         3000,
			"Abuja":         5000,
			"Port Harcourt": 5500,
			DefaultRegionKey: 7500,
		},
		TruckDeliveryFees: map[string]Money{
			"Lagos":          15000,
			DefaultRegionKey: 25000,
		},
	}
}

// DeliveryFee resolves the flat fee for a region. Region names are
// title-cased before lookup and unknown regions fall back to DEFAULT;
// permissive fallback is deliberate, not an error.
func (rt RateTable) DeliveryFee(region string, requiresTruck bool) (Money, bool) {
	table := rt.DeliveryFees
	if requiresTruck {
		table = rt.TruckDeliveryFees
	}
	if len(table) == 0 {
		return 0, false
	}
	if fee, ok := table[NormalizeRegion(region)]; ok {
		return fee, true
	}
	return table[DefaultRegionKey], false
}

// NormalizeRegion title-cases a region name so lookups tolerate caller casing.
func NormalizeRegion(region string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(region)))
	for i, f := range fields {
		runes := []rune(f)
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// applyRate multiplies an amount by a basis-point rate, rounding half up.
// Each fee is rounded independently at its own computation step.
func applyRate(amount Money, bps int64) Money {
	if amount <= 0 || bps <= 0 {
		return 0
	}
	return (amount*bps + bpsDenominator/2) / bpsDenominator
}

// divRound divides an amount into n parts, rounding half up.
func divRound(amount Money, n int64) Money {
	if n <= 0 {
		return 0
	}
	return (amount + n/2) / n
}
