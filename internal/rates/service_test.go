package rates

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestToUSDLiveRatesCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"rates": {"USD": 1, "EUR": 0.5, "JPY": 100}}`))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewService(srv.URL, cache, time.Hour, nil)
	ctx := context.Background()

	got, err := s.ToUSD(ctx, 50, "EUR")
	if err != nil {
		t.Fatalf("ToUSD: %v", err)
	}
	if math.Abs(got-100) > 1e-9 {
		t.Errorf("50 EUR at 0.5 = %v USD, want 100", got)
	}

	if _, err := s.ToUSD(ctx, 10000, "JPY"); err != nil {
		t.Fatalf("second ToUSD: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("rate api called %d times, want 1 (second call served from cache)", calls.Load())
	}
}

func TestToUSDFallbackWhenFetchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewService(srv.URL, nil, time.Hour, nil)
	got, err := s.ToUSD(context.Background(), 835, "INR")
	if err != nil {
		t.Fatalf("ToUSD: %v", err)
	}
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("835 INR at fallback 83.5 = %v USD, want 10", got)
	}
}

func TestToUSDPassthroughAndUnknown(t *testing.T) {
	s := NewService("http://invalid.localhost", nil, time.Hour, nil)
	ctx := context.Background()

	if got, err := s.ToUSD(ctx, 42, "usd"); err != nil || got != 42 {
		t.Errorf("USD passthrough: got=%v err=%v", got, err)
	}
	if got, err := s.ToUSD(ctx, 42, ""); err != nil || got != 42 {
		t.Errorf("empty currency passthrough: got=%v err=%v", got, err)
	}
	if _, err := s.ToUSD(ctx, 42, "XYZ"); err == nil {
		t.Error("unknown currency must error")
	}
}
