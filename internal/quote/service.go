package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/adire-living/backend-adire/internal/delivery"
	"github.com/adire-living/backend-adire/internal/plans"
	"github.com/adire-living/backend-adire/internal/pricing"
)

// PlanResolver looks up subscription plans for pricing.
type PlanResolver interface {
	Resolve(ctx context.Context, id string) (plans.Plan, error)
}

// Service assembles the inputs pricing.Compute needs: the configured rate
// table, a resolved delivery fee for the destination, and the subscription
// plan when one is referenced.
type Service struct {
	Rates    pricing.RateTable
	Delivery delivery.Resolver
	Plans    PlanResolver
}

// Input is the resolved, validated quote request.
type Input struct {
	Region string
	Lines  []pricing.CartLine
	Mode   pricing.Mode
}

// Quote computes a price preview for the cart. The same path runs inside
// checkout, so a preview shown to the customer always matches what gets
// persisted.
func (s Service) Quote(ctx context.Context, in Input) (pricing.Quote, error) {
	mode := in.Mode
	if mode.Kind == pricing.ModeSubscription {
		plan, err := s.Plans.Resolve(ctx, mode.PlanID)
		if err != nil {
			if errors.Is(err, plans.ErrPlanNotFound) {
				return pricing.Quote{}, fmt.Errorf("%w: %q", pricing.ErrUnknownPlan, mode.PlanID)
			}
			return pricing.Quote{}, fmt.Errorf("quote: resolve plan: %w", err)
		}
		mode.PlanMonthlyPrice = plan.MonthlyPrice
		if mode.Refresh == "" {
			mode.Refresh = plan.RefreshFrequency
		}
	}

	fee, err := s.Delivery.Fee(ctx, in.Region, pricing.RequiresTruckDelivery(in.Lines))
	if err != nil {
		return pricing.Quote{}, err
	}

	return pricing.Compute(in.Lines, mode, fee, s.Rates)
}
