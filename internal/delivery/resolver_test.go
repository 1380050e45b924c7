package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/adire-living/backend-adire/internal/pricing"
)

func TestTablePermissiveFallback(t *testing.T) {
	table := Table{Rates: pricing.DefaultRateTable()}
	fee, err := table.Fee(context.Background(), "somewhere unknown", false)
	if err != nil {
		t.Fatalf("permissive lookup must not fail: %v", err)
	}
	if fee != 7_500 {
		t.Fatalf("expected DEFAULT fee 7500, got %d", fee)
	}
}

func TestTableStrict(t *testing.T) {
	table := Table{Rates: pricing.DefaultRateTable(), Strict: true}
	if _, err := table.Fee(context.Background(), "somewhere unknown", false); !errors.Is(err, pricing.ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
	fee, err := table.Fee(context.Background(), "abuja", false)
	if err != nil {
		t.Fatalf("known region must resolve in strict mode: %v", err)
	}
	if fee != 5_000 {
		t.Fatalf("expected Abuja fee 5000, got %d", fee)
	}
}

func TestTableTruckTier(t *testing.T) {
	table := Table{Rates: pricing.DefaultRateTable()}
	fee, err := table.Fee(context.Background(), "Lagos", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 15_000 {
		t.Fatalf("expected Lagos truck fee 15000, got %d", fee)
	}
}
