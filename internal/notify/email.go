package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/adire-living/backend-adire/internal/common"
	"github.com/adire-living/backend-adire/internal/obs"
)

// Worker renders and sends notification emails consumed from the task queue.
type Worker struct {
	Mail common.EmailSender
	Log  zerolog.Logger
}

// Register attaches the worker's handlers to an asynq mux.
func (w Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeOrderConfirmation, w.HandleOrderConfirmation)
	mux.HandleFunc(TypePaymentReminder, w.HandlePaymentReminder)
}

// HandleOrderConfirmation sends the order confirmation email.
func (w Worker) HandleOrderConfirmation(_ context.Context, task *asynq.Task) error {
	var p OrderConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("notify: decode confirmation payload: %w", err)
	}
	if w.Mail == nil || p.Email == "" {
		return nil
	}
	subject := "Your Adire Living order is confirmed"
	if err := w.Mail.Send(p.Email, subject, confirmationBody(p)); err != nil {
		w.Log.Error().Err(err).Str("order_id", p.OrderID).Msg("send confirmation email")
		return err
	}
	return nil
}

// HandlePaymentReminder sends an upcoming or overdue payment reminder.
func (w Worker) HandlePaymentReminder(_ context.Context, task *asynq.Task) error {
	var p PaymentReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("notify: decode reminder payload: %w", err)
	}
	if w.Mail == nil || p.Email == "" {
		return nil
	}
	subject := "Payment due soon for your Adire Living order"
	if p.Kind == ReminderOverdue {
		subject = "Overdue payment on your Adire Living order"
	}
	err := w.Mail.Send(p.Email, subject, reminderBody(p))
	if obs.ReminderEmailTotal != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		obs.ReminderEmailTotal.WithLabelValues(p.Kind, result).Inc()
	}
	if err != nil {
		w.Log.Error().Err(err).Str("order_id", p.OrderID).Int("seq", p.Seq).Msg("send reminder email")
		return err
	}
	return nil
}

func confirmationBody(p OrderConfirmationPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order %s.\n", p.OrderID)
	fmt.Fprintf(&b, "Order total: %d\n", p.Total)
	if p.DownPayment > 0 && p.DownPayment != p.Total {
		fmt.Fprintf(&b, "Paid today: %d\n", p.DownPayment)
	}
	if p.ScheduleMonths > 0 {
		fmt.Fprintf(&b, "Plan: %s over %d months at %d per month.\n", p.Mode, p.ScheduleMonths, p.MonthlyPayment)
		b.WriteString("Your full payment schedule is available on your order page.\n")
	}
	return b.String()
}

func reminderBody(p PaymentReminderPayload) string {
	var b strings.Builder
	if p.Kind == ReminderOverdue {
		fmt.Fprintf(&b, "Payment %d (%d) on order %s was due %s.\n", p.Seq, p.Amount, p.OrderID, p.DueDate)
		if p.LateFee > 0 {
			fmt.Fprintf(&b, "A late fee of %d now applies.\n", p.LateFee)
		}
		return b.String()
	}
	fmt.Fprintf(&b, "Payment %d (%d) on order %s is due %s.\n", p.Seq, p.Amount, p.OrderID, p.DueDate)
	return b.String()
}
