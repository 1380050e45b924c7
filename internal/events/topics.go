package events

// Topic constants for domain events emitted by the platform.
const (
	TopicOrderCreated           = "order.created"
	TopicSchedulePaymentDue     = "schedule.payment_upcoming"
	TopicSchedulePaymentOverdue = "schedule.payment_overdue"
	TopicSubscriptionRefreshDue = "subscription.refresh_due"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicSchedulePaymentDue,
		TopicSchedulePaymentOverdue,
		TopicSubscriptionRefreshDue,
	}
}
