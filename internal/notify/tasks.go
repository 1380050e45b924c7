package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names routed through the Redis-backed task queue.
const (
	TypeOrderConfirmation = "email:order_confirmation"
	TypePaymentReminder   = "email:payment_reminder"
)

// Reminder kinds.
const (
	ReminderUpcoming = "upcoming"
	ReminderOverdue  = "overdue"
)

// OrderConfirmationPayload carries everything the confirmation email needs,
// frozen at checkout so the task does not read the database.
type OrderConfirmationPayload struct {
	OrderID        string `json:"orderId"`
	Email          string `json:"email"`
	Mode           string `json:"mode"`
	Total          int64  `json:"total"`
	DownPayment    int64  `json:"downPayment"`
	MonthlyPayment int64  `json:"monthlyPayment"`
	ScheduleMonths int    `json:"scheduleMonths"`
}

// PaymentReminderPayload describes one upcoming or overdue schedule entry.
type PaymentReminderPayload struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
	Seq     int    `json:"seq"`
	DueDate string `json:"dueDate"`
	Amount  int64  `json:"amount"`
	Kind    string `json:"kind"`
	LateFee int64  `json:"lateFee,omitempty"`
}

// NewOrderConfirmationTask builds the asynq task for an order confirmation.
func NewOrderConfirmationTask(p OrderConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("notify: marshal confirmation: %w", err)
	}
	return asynq.NewTask(TypeOrderConfirmation, data, asynq.MaxRetry(5)), nil
}

// NewPaymentReminderTask builds the asynq task for a payment reminder.
func NewPaymentReminderTask(p PaymentReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("notify: marshal reminder: %w", err)
	}
	// Reminder tasks are deduplicated per entry and day so a rescheduled scan
	// cannot double-send.
	id := fmt.Sprintf("reminder:%s:%d:%s:%s", p.OrderID, p.Seq, p.Kind, p.DueDate)
	return asynq.NewTask(TypePaymentReminder, data, asynq.MaxRetry(3), asynq.TaskID(id)), nil
}
