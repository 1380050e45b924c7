package checkout

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adire-living/backend-adire/internal/order"
)

// PGPersister commits an order and its schedule snapshot atomically.
type PGPersister struct {
	Pool  *pgxpool.Pool
	Store order.PGStore
}

// Persist implements Persister.
func (p PGPersister) Persist(ctx context.Context, o order.Order, lines []order.Line, entries []order.ScheduleEntry) error {
	tx, err := p.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	st := p.Store.WithTx(tx)
	if err := st.InsertOrder(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, l := range lines {
		if err := st.InsertLine(ctx, l); err != nil {
			return fmt.Errorf("insert line: %w", err)
		}
	}
	for _, e := range entries {
		if err := st.InsertScheduleEntry(ctx, e); err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
	}
	return tx.Commit(ctx)
}
