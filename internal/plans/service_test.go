package plans

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/adire-living/backend-adire/internal/pricing"
)

type fakeStore struct {
	plans map[string]Plan
	calls int
}

func (f *fakeStore) GetPlan(_ context.Context, id string) (Plan, error) {
	f.calls++
	p, ok := f.plans[id]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p, nil
}

func (f *fakeStore) ListActive(context.Context) ([]Plan, error) {
	out := make([]Plan, 0, len(f.plans))
	for _, p := range f.plans {
		out = append(out, p)
	}
	return out, nil
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestResolveCachesPlan(t *testing.T) {
	store := &fakeStore{plans: map[string]Plan{
		"essentials": {ID: "essentials", Name: "Essentials", MonthlyPrice: 45_000_00, RefreshFrequency: pricing.RefreshQuarterly, Active: true},
	}}
	svc := Service{Store: store, Cache: newTestCache(t)}
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "essentials")
	require.NoError(t, err)
	require.Equal(t, pricing.Money(45_000_00), first.MonthlyPrice)

	second, err := svc.Resolve(ctx, "essentials")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, store.calls, "second resolve must hit the cache")
}

func TestResolveUnknownPlan(t *testing.T) {
	svc := Service{Store: &fakeStore{}, Cache: nil}
	_, err := svc.Resolve(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestResolveWithoutCache(t *testing.T) {
	store := &fakeStore{plans: map[string]Plan{
		"studio": {ID: "studio", Name: "Studio", MonthlyPrice: 30_000_00, RefreshFrequency: pricing.RefreshBiannual, Active: true},
	}}
	svc := Service{Store: store}

	p, err := svc.Resolve(context.Background(), "studio")
	require.NoError(t, err)
	require.Equal(t, "Studio", p.Name)
}
