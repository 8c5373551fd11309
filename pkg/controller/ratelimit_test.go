package controller_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ipms/pkg/controller"
)

func TestIPRateLimiter(t *testing.T) {
	limiter := controller.NewIPRateLimiter(0.001, 2)

	require.True(t, limiter.Allow("1.1.1.1"))
	require.True(t, limiter.Allow("1.1.1.1"))
	require.False(t, limiter.Allow("1.1.1.1"))
	require.True(t, limiter.Allow("2.2.2.2"), "buckets are per IP")
	require.Equal(t, 2, limiter.Len())

	require.Zero(t, limiter.Prune(time.Now().Add(-time.Hour)))
	require.Equal(t, 2, limiter.Prune(time.Now().Add(time.Minute)))
	require.Zero(t, limiter.Len())
	require.True(t, limiter.Allow("1.1.1.1"), "a pruned IP starts with a full bucket")
}

func TestWithRateLimit(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	handler := controller.WithRateLimit(controller.NewIPRateLimiter(0.2, 1), nil)(next)

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	require.Equal(t, http.StatusOK, send("1.1.1.1:1000").Code)

	rec := send("1.1.1.1:1001")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "5", rec.Header().Get("Retry-After"))
	require.JSONEq(t, `{"code":"RATE_LIMITED","message":"Too many requests. Please try again later."}`, rec.Body.String())

	require.Equal(t, http.StatusOK, send("3.3.3.3:1000").Code)
	require.Equal(t, 2, calls)
}

func TestWithRateLimit_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	limiter := controller.NewIPRateLimiter(0.0001, 1)
	handler := controller.WithRateLimit(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	accepted := 0
	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			accepted++
		}
	}

	require.Equal(t, 1, accepted)
	require.Equal(t, 1, limiter.Len())
}

func TestWithRateLimit_TrustedProxy(t *testing.T) {
	resolver, err := controller.NewClientIPResolver([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	limiter := controller.NewIPRateLimiter(0.0001, 1)
	handler := controller.WithRateLimit(limiter, resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "10.0.0.2:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("198.51.100.1"))
	// a forged left-most entry does not change the client the proxy saw
	require.Equal(t, http.StatusTooManyRequests, send("1.2.3.4, 198.51.100.1"))
	require.Equal(t, http.StatusOK, send("198.51.100.2"))
	require.Equal(t, 2, limiter.Len())
}
