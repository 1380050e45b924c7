package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/adire-living/backend-adire/internal/events"
)

// Enqueuer pushes notification tasks onto the queue.
type Enqueuer struct {
	Client *asynq.Client
	Queue  string
}

// EnqueueOrderConfirmation queues the confirmation email for an order.
func (e Enqueuer) EnqueueOrderConfirmation(ctx context.Context, p OrderConfirmationPayload) error {
	task, err := NewOrderConfirmationTask(p)
	if err != nil {
		return err
	}
	return e.enqueue(ctx, task)
}

// EnqueuePaymentReminder queues a reminder email for one schedule entry.
// Duplicate reminders for the same entry and day are dropped silently.
func (e Enqueuer) EnqueuePaymentReminder(ctx context.Context, p PaymentReminderPayload) error {
	task, err := NewPaymentReminderTask(p)
	if err != nil {
		return err
	}
	if err := e.enqueue(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return err
	}
	return nil
}

func (e Enqueuer) enqueue(ctx context.Context, task *asynq.Task) error {
	if e.Client == nil {
		return errors.New("notify: task client not configured")
	}
	opts := []asynq.Option{}
	if e.Queue != "" {
		opts = append(opts, asynq.Queue(e.Queue))
	}
	_, err := e.Client.EnqueueContext(ctx, task, opts...)
	return err
}

// TaskNotifier bridges the event bus to the task queue: order.created events
// become confirmation email tasks.
type TaskNotifier struct {
	Enq Enqueuer
}

// Notify implements events.Notifier.
func (n TaskNotifier) Notify(ctx context.Context, event events.Event) error {
	if event.Topic != events.TopicOrderCreated {
		return nil
	}
	var p OrderConfirmationPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return fmt.Errorf("notify: decode %s payload: %w", event.Topic, err)
	}
	if p.Email == "" {
		return nil
	}
	return n.Enq.EnqueueOrderConfirmation(ctx, p)
}
