package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adire-living/backend-adire/internal/events"
	"github.com/adire-living/backend-adire/internal/notify"
	"github.com/adire-living/backend-adire/internal/obs"
	"github.com/adire-living/backend-adire/internal/order"
	"github.com/adire-living/backend-adire/internal/quote"
	"github.com/adire-living/backend-adire/internal/schedule"
)

// Persister writes the order, its lines, and the schedule snapshot in one
// transaction.
type Persister interface {
	Persist(ctx context.Context, o order.Order, lines []order.Line, entries []order.ScheduleEntry) error
}

// Service confirms orders. The quote is always recomputed server-side from
// the submitted cart; totals sent by the client are never trusted or stored.
type Service struct {
	Quotes quote.Service
	Store  Persister
	Bus    *events.Bus
	Now    func() time.Time
	Log    zerolog.Logger
}

// Output is the confirmation result returned to the client.
type Output struct {
	Order    order.Order           `json:"order"`
	Schedule []order.ScheduleEntry `json:"schedule"`
}

// Confirm prices the cart, freezes the payment schedule, and persists the
// order. The order.created event is emitted after commit.
func (s *Service) Confirm(ctx context.Context, in quote.Input, customerEmail string) (Output, error) {
	q, err := s.Quotes.Quote(ctx, in)
	if err != nil {
		return Output{}, err
	}

	purchasedAt := s.now().UTC().Truncate(24 * time.Hour)
	o := order.Order{
		ID:             uuid.New(),
		Status:         order.OrderStatusConfirmed,
		Region:         in.Region,
		Mode:           q.Mode,
		CustomerEmail:  customerEmail,
		Subtotal:       q.Subtotal,
		VAT:            q.VAT,
		DeliveryFee:    q.DeliveryFee,
		InsuranceFee:   q.InsuranceFee,
		ServiceFee:     q.ServiceFee,
		RentalFee:      q.RentalFee,
		Total:          q.Total,
		DownPayment:    q.DownPayment,
		MonthlyPayment: q.MonthlyPayment,
		ScheduleMonths: q.ScheduleMonths,
		PurchasedAt:    purchasedAt,
	}

	lines := make([]order.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, order.Line{
			ID:                     uuid.New(),
			OrderID:                o.ID,
			ProductID:              l.ProductID,
			Variant:                l.Variant,
			UnitPrice:              l.UnitPrice,
			Qty:                    l.Qty,
			CustomizationSurcharge: l.CustomizationSurcharge,
			RequiresTruckDelivery:  l.RequiresTruckDelivery,
		})
	}

	entries := toOrderEntries(o.ID, schedule.Generate(q, purchasedAt))

	if err := s.Store.Persist(ctx, o, lines, entries); err != nil {
		if obs.CheckoutTotal != nil {
			obs.CheckoutTotal.WithLabelValues(string(q.Mode), "error").Inc()
		}
		return Output{}, fmt.Errorf("checkout: persist order: %w", err)
	}

	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues(string(q.Mode), "ok").Inc()
	}
	if obs.ScheduleEntriesGenerated != nil {
		obs.ScheduleEntriesGenerated.Add(float64(len(entries)))
	}

	s.emitCreated(ctx, o)

	return Output{Order: o, Schedule: entries}, nil
}

func (s *Service) emitCreated(ctx context.Context, o order.Order) {
	if s.Bus == nil {
		return
	}
	payload := notify.OrderConfirmationPayload{
		OrderID:        o.ID.String(),
		Email:          o.CustomerEmail,
		Mode:           string(o.Mode),
		Total:          int64(o.Total),
		DownPayment:    int64(o.DownPayment),
		MonthlyPayment: int64(o.MonthlyPayment),
		ScheduleMonths: o.ScheduleMonths,
	}
	// The order is already committed; event or notification failures must not
	// undo a confirmed checkout.
	if _, err := s.Bus.Emit(ctx, events.TopicOrderCreated, o.ID, payload); err != nil {
		s.Log.Error().Err(err).Str("order_id", o.ID.String()).Msg("emit order.created")
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func toOrderEntries(orderID uuid.UUID, src []schedule.Entry) []order.ScheduleEntry {
	if len(src) == 0 {
		return nil
	}
	out := make([]order.ScheduleEntry, 0, len(src))
	for _, e := range src {
		out = append(out, order.ScheduleEntry{
			OrderID:   orderID,
			Seq:       e.Seq,
			DueDate:   e.DueDate,
			Amount:    e.Amount,
			PaidToday: e.PaidToday,
		})
	}
	return out
}
