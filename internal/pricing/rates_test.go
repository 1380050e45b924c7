package pricing

import "testing"

func TestDeliveryFeeLookup(t *testing.T) {
	rates := DefaultRateTable()
	fee, ok := rates.DeliveryFee("Lagos", false)
	if !ok || fee != 3_000 {
		t.Fatalf("expected Lagos fee 3000 (matched), got %d ok=%v", fee, ok)
	}
	// Lookup is case-insensitive via title-case normalization.
	fee, ok = rates.DeliveryFee("pORT hARCOURT", false)
	if !ok || fee != 5_500 {
		t.Fatalf("expected Port Harcourt fee 5500 (matched), got %d ok=%v", fee, ok)
	}
	// Unknown regions fall back to DEFAULT without error.
	fee, ok = rates.DeliveryFee("Kigali", false)
	if ok || fee != 7_500 {
		t.Fatalf("expected DEFAULT fee 7500 (unmatched), got %d ok=%v", fee, ok)
	}
}

func TestDeliveryFeeTruckTable(t *testing.T) {
	rates := DefaultRateTable()
	fee, ok := rates.DeliveryFee("lagos", true)
	if !ok || fee != 15_000 {
		t.Fatalf("expected Lagos truck fee 15000, got %d ok=%v", fee, ok)
	}
	fee, ok = rates.DeliveryFee("Enugu", true)
	if ok || fee != 25_000 {
		t.Fatalf("expected other-states truck fee 25000, got %d ok=%v", fee, ok)
	}
}

func TestNormalizeRegion(t *testing.T) {
	cases := map[string]string{
		"lagos":          "Lagos",
		"  PORT harcourt": "Port Harcourt",
		"":               "",
	}
	for in, want := range cases {
		if got := NormalizeRegion(in); got != want {
			t.Fatalf("NormalizeRegion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyRateHalfUp(t *testing.T) {
	// 32250 * 5% * 3 = 4837.5 rounds to 4838.
	if got := applyRate(32_250, 500*3); got != 4_838 {
		t.Fatalf("expected 4838, got %d", got)
	}
	if got := divRound(37_088, 3); got != 12_363 {
		t.Fatalf("expected 12363, got %d", got)
	}
	if got := divRound(5, 2); got != 3 {
		t.Fatalf("expected half-up 3, got %d", got)
	}
}
