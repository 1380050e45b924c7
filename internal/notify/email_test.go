package notify

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/adire-living/backend-adire/internal/common"
	"github.com/adire-living/backend-adire/internal/events"
)

func TestHandleOrderConfirmation(t *testing.T) {
	mail := &common.InMemoryEmail{}
	w := Worker{Mail: mail}

	task, err := NewOrderConfirmationTask(OrderConfirmationPayload{
		OrderID:        "ord-1",
		Email:          "ada@example.com",
		Mode:           "installment",
		Total:          112_338,
		DownPayment:    75_250,
		MonthlyPayment: 12_363,
		ScheduleMonths: 3,
	})
	require.NoError(t, err)
	require.NoError(t, w.HandleOrderConfirmation(context.Background(), task))

	require.Len(t, mail.Outbox, 1)
	msg := mail.Outbox[0]
	require.Equal(t, "ada@example.com", msg.To)
	require.Contains(t, msg.HTML, "ord-1")
	require.Contains(t, msg.HTML, "3 months")
	require.Contains(t, msg.HTML, "12363")
}

func TestHandlePaymentReminderOverdue(t *testing.T) {
	mail := &common.InMemoryEmail{}
	w := Worker{Mail: mail}

	task, err := NewPaymentReminderTask(PaymentReminderPayload{
		OrderID: "ord-2",
		Email:   "obi@example.com",
		Seq:     2,
		DueDate: "2024-02-29",
		Amount:  12_363,
		Kind:    ReminderOverdue,
		LateFee: 2_500,
	})
	require.NoError(t, err)
	require.NoError(t, w.HandlePaymentReminder(context.Background(), task))

	require.Len(t, mail.Outbox, 1)
	msg := mail.Outbox[0]
	require.Contains(t, msg.Subject, "Overdue")
	require.Contains(t, msg.HTML, "late fee of 2500")
}

func TestHandlePaymentReminderBadPayload(t *testing.T) {
	w := Worker{Mail: &common.InMemoryEmail{}}
	task := asynq.NewTask(TypePaymentReminder, []byte("not-json"))
	require.Error(t, w.HandlePaymentReminder(context.Background(), task))
}

func TestTaskNotifierForwardsOrderCreated(t *testing.T) {
	// Without a configured client the enqueue must fail loudly instead of
	// dropping the confirmation on the floor.
	n := TaskNotifier{}
	payload, err := json.Marshal(OrderConfirmationPayload{OrderID: "ord-3", Email: "ada@example.com"})
	require.NoError(t, err)
	err = n.Notify(context.Background(), events.Event{Topic: events.TopicOrderCreated, Payload: payload})
	require.Error(t, err)

	// Other topics are ignored.
	err = n.Notify(context.Background(), events.Event{Topic: events.TopicSchedulePaymentDue, Payload: payload})
	require.NoError(t, err)

	// Events without a recipient are skipped.
	empty, _ := json.Marshal(OrderConfirmationPayload{OrderID: "ord-4"})
	err = n.Notify(context.Background(), events.Event{Topic: events.TopicOrderCreated, Payload: empty})
	require.NoError(t, err)
}
