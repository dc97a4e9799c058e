package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ciclored/ciclored-api/internal/config"
)

func TestBuildRateKey(t *testing.T) {
	t.Parallel()

	newCtx := func(uid uint64) echo.Context {
		req := httptest.NewRequest(http.MethodPost, "/routes", nil)
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
		c := echo.New().NewContext(req, httptest.NewRecorder())
		c.SetPath("/routes")
		if uid != 0 {
			c.Set(CtxUserID, uid)
		}
		return c
	}

	cases := map[string]string{
		"ip":            "rl:ip:10.0.0.7",
		"user":          "rl:user:42",
		"route":         "rl:route:POST /routes",
		"ip_user":       "rl:ip:10.0.0.7:user:42",
		"ip_route":      "rl:ip:10.0.0.7:route:POST /routes",
		"user_route":    "rl:user:42:route:POST /routes",
		"ip_user_route": "rl:ip:10.0.0.7:user:42:route:POST /routes",
		"unknown":       "rl:ip:10.0.0.7:user:42:route:POST /routes",
	}
	for strategy, want := range cases {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
		assert.Equal(t, want, buildRateKey(cfg, newCtx(42)), strategy)
	}

	anon := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	assert.Equal(t, "rl:user:anon", buildRateKey(anon, newCtx(0)))
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	t.Parallel()

	calls := 0
	next := func(c echo.Context) error { calls++; return c.NoContent(http.StatusOK) }

	for _, cfg := range []config.RateLimitConfig{{Enabled: false}, {Enabled: true}} {
		mw := NewTokenBucket(cfg, nil, zap.NewNop())
		rec := httptest.NewRecorder()
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		assert.NoError(t, mw(next)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, 2, calls)
}

func newLimitedEcho(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/routes", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, NewTokenBucket(cfg, rdb, zap.NewNop()))
	return e
}

func TestTokenBucketEnforcesCapacity(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
	e := newLimitedEcho(t, cfg, rdb)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/routes", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i, wantRemaining := range []string{"1", "0"} {
		rec := send("10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, wantRemaining, rec.Header().Get("X-RateLimit-Remaining"))
		assert.Empty(t, rec.Header().Get("Retry-After"))
	}

	rec := send("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	retry, err := strconv.Atoi(rec.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.True(t, retry >= 1 && retry <= 60, "retry-after %d", retry)

	var body struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retry_after"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "too_many_requests", body.Error)
	assert.Equal(t, retry, body.RetryAfter)

	assert.True(t, mr.Exists("rl:ip:10.0.0.1"))
	assert.Positive(t, mr.TTL("rl:ip:10.0.0.1"))

	// buckets are per key
	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

func TestTokenBucketFailsOpenWhenRedisIsDown(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: time.Minute, KeyStrategy: "ip", Prefix: "rl"}
	e := newLimitedEcho(t, cfg, rdb)

	for range 3 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/routes", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}
