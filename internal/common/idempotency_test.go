package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestIdemMiddlewareBlocksReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	handler := Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req.Header.Set("Idempotency-Key", "order-abc")
	handler.ServeHTTP(first, req)
	require.Equal(t, http.StatusCreated, first.Code)

	replay := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	req2.Header.Set("Idempotency-Key", "order-abc")
	handler.ServeHTTP(replay, req2)
	require.Equal(t, http.StatusConflict, replay.Code)
	require.Equal(t, 1, calls)
}

func TestIdemMiddlewareNoKeyPassesThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	handler := Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))
	}
	require.Equal(t, 2, calls)
}
