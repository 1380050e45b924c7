package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adire-living/backend-adire/internal/events"
)

type stubStore struct {
	lastTopic   string
	lastPayload []byte
}

func (s *stubStore) InsertEvent(_ context.Context, topic string, aggregateID uuid.UUID, payload []byte) (events.Event, error) {
	s.lastTopic = topic
	s.lastPayload = payload
	return events.Event{
		ID:          uuid.New(),
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}, nil
}

type captureNotifier struct {
	events []events.Event
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return c.err
}

func TestEmitPersistsAndNotifies(t *testing.T) {
	store := &stubStore{}
	notifier := &captureNotifier{}
	bus := events.Bus{Store: store, Notifiers: []events.Notifier{notifier}}

	aggregate := uuid.New()
	event, err := bus.Emit(context.Background(), events.TopicOrderCreated, aggregate, map[string]any{"orderId": aggregate.String()})
	require.NoError(t, err)
	require.Equal(t, events.TopicOrderCreated, store.lastTopic)
	require.JSONEq(t, `{"orderId":"`+aggregate.String()+`"}`, string(store.lastPayload))
	require.Len(t, notifier.events, 1)
	require.Equal(t, event.ID, notifier.events[0].ID)
}

func TestEmitValidatesInput(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	ctx := context.Background()

	_, err := bus.Emit(ctx, "", uuid.New(), nil)
	require.Error(t, err)

	_, err = bus.Emit(ctx, events.TopicOrderCreated, uuid.Nil, nil)
	require.Error(t, err)

	_, err = bus.Emit(ctx, events.TopicOrderCreated, uuid.New(), []byte("not-json"))
	require.Error(t, err)
}

func TestEmitSurvivesNotifierFailure(t *testing.T) {
	store := &stubStore{}
	failing := &captureNotifier{err: errors.New("smtp down")}
	ok := &captureNotifier{}
	bus := events.Bus{Store: store, Notifiers: []events.Notifier{failing, ok}}

	event, err := bus.Emit(context.Background(), events.TopicSchedulePaymentDue, uuid.New(), nil)
	require.Error(t, err)
	require.NotEqual(t, uuid.Nil, event.ID)
	require.Len(t, ok.events, 1, "remaining notifiers still run")
}

func TestEmitDefaultsEmptyPayload(t *testing.T) {
	store := &stubStore{}
	bus := events.Bus{Store: store}

	_, err := bus.Emit(context.Background(), events.TopicSchedulePaymentOverdue, uuid.New(), "")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(store.lastPayload))
}
