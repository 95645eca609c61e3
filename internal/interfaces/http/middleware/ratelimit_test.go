package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/infrastructure/ratelimit"
	"kuppi/internal/shared/logger"
)

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ ratelimit.Config) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func rateLimitedRouter(l ratelimit.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(l, ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 100}, "auth", logger.NewLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimit_PassesUnderLimit(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	router := rateLimitedRouter(limiter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, limiter.keys, 1)
	assert.Contains(t, limiter.keys[0], "auth:", "limiter keys are scoped per route group")
}

func TestRateLimit_RejectsWhenExhausted(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	router := rateLimitedRouter(limiter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_DegradesOpenWhenLimiterDown(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis: connection refused")}
	router := rateLimitedRouter(limiter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code, "a limiter outage must not take logins down")
}
