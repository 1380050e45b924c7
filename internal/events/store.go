package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists domain events in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// InsertEvent appends an event to the domain_events table.
func (s PGStore) InsertEvent(ctx context.Context, topic string, aggregateID uuid.UUID, payload []byte) (Event, error) {
	const query = `
		INSERT INTO domain_events (id, topic, aggregate_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, topic, aggregate_id, payload, occurred_at`

	id := uuid.New()
	row := s.Pool.QueryRow(ctx, query, id, topic, aggregateID, payload)

	var (
		ev         Event
		occurredAt pgtype.Timestamptz
	)
	if err := row.Scan(&ev.ID, &ev.Topic, &ev.AggregateID, &ev.Payload, &occurredAt); err != nil {
		return Event{}, err
	}
	if occurredAt.Valid {
		ev.OccurredAt = occurredAt.Time
	} else {
		ev.OccurredAt = time.Now()
	}
	return ev, nil
}
