package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adire-living/backend-adire/internal/lock"
	"github.com/adire-living/backend-adire/internal/notify"
	"github.com/adire-living/backend-adire/internal/order"
	"github.com/adire-living/backend-adire/internal/pricing"
)

// TaskScan is the periodic task type consumed by the worker.
const TaskScan = "reminder:scan"

const lockKey = "reminder:scan:lock"

// DueLister reads schedule entries that need attention.
type DueLister interface {
	ListEntriesDueBetween(ctx context.Context, from, to time.Time) ([]order.DueEntry, error)
	ListEntriesOverdue(ctx context.Context, asOf time.Time) ([]order.DueEntry, error)
}

// ReminderEnqueuer queues reminder emails.
type ReminderEnqueuer interface {
	EnqueuePaymentReminder(ctx context.Context, p notify.PaymentReminderPayload) error
}

// Scanner finds upcoming and overdue schedule entries and queues reminder
// emails for them. One scan runs per tick across all worker replicas; the
// Redis lock picks the winner.
type Scanner struct {
	Store    DueLister
	Enq      ReminderEnqueuer
	Locker   lock.Locker
	Rates    pricing.RateTable
	Window   time.Duration
	LockTTL  time.Duration
	Now      func() time.Time
	Log      zerolog.Logger
}

// Scan acquires the scan lock and processes due entries. Losing the lock race
// is not an error.
func (s Scanner) Scan(ctx context.Context) error {
	ran, err := s.Locker.Try(ctx, lockKey, s.lockTTL(), s.scan)
	if err != nil {
		return err
	}
	if !ran {
		s.Log.Debug().Msg("reminder scan already running elsewhere")
	}
	return nil
}

func (s Scanner) scan(ctx context.Context) error {
	today := s.today()
	window := s.Window
	if window <= 0 {
		window = 3 * 24 * time.Hour
	}

	var joined error

	upcoming, err := s.Store.ListEntriesDueBetween(ctx, today, today.Add(window))
	if err != nil {
		return fmt.Errorf("reminder: list upcoming: %w", err)
	}
	for _, e := range upcoming {
		if err := s.Enq.EnqueuePaymentReminder(ctx, s.payload(e, notify.ReminderUpcoming)); err != nil {
			joined = errors.Join(joined, err)
		}
	}

	overdue, err := s.Store.ListEntriesOverdue(ctx, today)
	if err != nil {
		return fmt.Errorf("reminder: list overdue: %w", err)
	}
	for _, e := range overdue {
		if err := s.Enq.EnqueuePaymentReminder(ctx, s.payload(e, notify.ReminderOverdue)); err != nil {
			joined = errors.Join(joined, err)
		}
	}

	s.Log.Info().Int("upcoming", len(upcoming)).Int("overdue", len(overdue)).Msg("reminder scan complete")
	return joined
}

func (s Scanner) payload(e order.DueEntry, kind string) notify.PaymentReminderPayload {
	p := notify.PaymentReminderPayload{
		OrderID: e.OrderID.String(),
		Email:   e.CustomerEmail,
		Seq:     e.Seq,
		DueDate: e.DueDate.Format("2006-01-02"),
		Amount:  int64(e.Amount),
		Kind:    kind,
	}
	if kind == notify.ReminderOverdue {
		p.LateFee = int64(s.lateFee(e.Mode))
	}
	return p
}

func (s Scanner) lateFee(mode pricing.ModeKind) pricing.Money {
	switch mode {
	case pricing.ModeRentToOwn:
		return s.Rates.LateFeeRental
	case pricing.ModeInstallment:
		return s.Rates.LateFeeInstallment
	default:
		return 0
	}
}

func (s Scanner) today() time.Time {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return now.UTC().Truncate(24 * time.Hour)
}

func (s Scanner) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return time.Minute
	}
	return s.LockTTL
}
