package delivery

import (
	"context"
	"fmt"

	"github.com/adire-living/backend-adire/internal/pricing"
)

// Resolver resolves the flat delivery fee for a destination region. It may be
// backed by a static table or a remote service; the quote flow only requires
// synchronous resolution before pricing.
type Resolver interface {
	Fee(ctx context.Context, region string, requiresTruck bool) (pricing.Money, error)
}

// Table resolves fees from the rate table shipped with the process
// configuration. When Strict is set, regions missing from the table are
// rejected instead of falling back to the DEFAULT tier.
type Table struct {
	Rates  pricing.RateTable
	Strict bool
}

// Fee implements Resolver.
func (t Table) Fee(_ context.Context, region string, requiresTruck bool) (pricing.Money, error) {
	fee, matched := t.Rates.DeliveryFee(region, requiresTruck)
	if t.Strict && !matched {
		return 0, fmt.Errorf("%w: %q", pricing.ErrUnknownRegion, region)
	}
	return fee, nil
}

// Fixed returns the same fee regardless of destination. Useful for tests and
// development.
type Fixed struct {
	Amount pricing.Money
}

// Fee implements Resolver.
func (f Fixed) Fee(context.Context, string, bool) (pricing.Money, error) {
	return f.Amount, nil
}
