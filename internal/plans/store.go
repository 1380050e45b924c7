package plans

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adire-living/backend-adire/internal/pricing"
)

// ErrPlanNotFound is returned when a subscription plan does not exist or is inactive.
var ErrPlanNotFound = errors.New("plans: plan not found")

// Plan is a subscription plan row from the catalog.
type Plan struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	MonthlyPrice     pricing.Money            `json:"monthlyPrice"`
	RefreshFrequency pricing.RefreshFrequency `json:"refreshFrequency"`
	Active           bool                     `json:"active"`
}

// PGStore reads subscription plans from Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// GetPlan fetches a single active plan by its identifier.
func (s PGStore) GetPlan(ctx context.Context, id string) (Plan, error) {
	const query = `
		SELECT id, name, monthly_price, refresh_frequency, active
		FROM subscription_plans
		WHERE id = $1 AND active`

	var p Plan
	err := s.Pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.MonthlyPrice, &p.RefreshFrequency, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plan{}, ErrPlanNotFound
		}
		return Plan{}, err
	}
	return p, nil
}

// ListActive returns all active plans ordered by price.
func (s PGStore) ListActive(ctx context.Context) ([]Plan, error) {
	const query = `
		SELECT id, name, monthly_price, refresh_frequency, active
		FROM subscription_plans
		WHERE active
		ORDER BY monthly_price, id`

	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.MonthlyPrice, &p.RefreshFrequency, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
