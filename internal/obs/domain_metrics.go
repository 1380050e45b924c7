package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteTotal counts quote computations by acquisition mode and result.
	QuoteTotal *prometheus.CounterVec
	// QuoteErrorTotal counts rejected quotes by failure reason.
	QuoteErrorTotal *prometheus.CounterVec
	// CheckoutTotal counts checkout confirmations by mode and result.
	CheckoutTotal *prometheus.CounterVec
	// ScheduleEntriesGenerated counts payment schedule entries written at confirmation.
	ScheduleEntriesGenerated prometheus.Counter
	// ReminderEmailTotal counts reminder emails by kind (upcoming, overdue) and result.
	ReminderEmailTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_total",
			Help:      "Count of quote computations by acquisition mode and result.",
		}, []string{"mode", "result"})
		QuoteErrorTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_error_total",
			Help:      "Count of rejected quote requests by reason.",
		}, []string{"reason"})
		CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_total",
			Help:      "Count of checkout confirmations by acquisition mode and result.",
		}, []string{"mode", "result"})
		ScheduleEntriesGenerated = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_entries_generated_total",
			Help:      "Number of payment schedule entries persisted at confirmation time.",
		})
		ReminderEmailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_email_total",
			Help:      "Count of payment reminder emails by kind and result.",
		}, []string{"kind", "result"})

		mustRegisterCollector(reg, QuoteTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteErrorTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteErrorTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutTotal = v
			}
		})
		mustRegisterCollector(reg, ScheduleEntriesGenerated, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ScheduleEntriesGenerated = v
			}
		})
		mustRegisterCollector(reg, ReminderEmailTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ReminderEmailTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
