package plans

import (
	"context"
	"fmt"
)

// Store is the persistence dependency for Service.
type Store interface {
	GetPlan(ctx context.Context, id string) (Plan, error)
	ListActive(ctx context.Context) ([]Plan, error)
}

// Service resolves subscription plans with a cache in front of Postgres.
type Service struct {
	Store Store
	Cache *Cache
}

// Resolve returns the active plan for id, consulting the cache first.
func (s Service) Resolve(ctx context.Context, id string) (Plan, error) {
	key := cacheKey(id)
	var cached Plan
	if hit, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}
	plan, err := s.Store.GetPlan(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	_ = s.Cache.SetJSON(ctx, key, plan)
	return plan, nil
}

// ListActive returns all active plans. The listing is not cached: it backs an
// admin-facing and storefront browse call, not the per-keystroke quote path.
func (s Service) ListActive(ctx context.Context) ([]Plan, error) {
	return s.Store.ListActive(ctx)
}

func cacheKey(id string) string {
	return fmt.Sprintf("plans:v1:%s", id)
}
