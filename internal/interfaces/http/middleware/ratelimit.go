package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kuppi/internal/infrastructure/ratelimit"
	"kuppi/internal/shared/logger"
	"kuppi/internal/shared/utils"
)

// RateLimit enforces a per-IP limit on sensitive routes (login, checkout).
// The limiter runs on shared Redis so the limit holds across instances.
// On limiter failure the request is allowed through; rate limiting degrades
// open rather than taking the API down with Redis.
func RateLimit(limiter ratelimit.RateLimiter, cfg ratelimit.Config, scope string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", scope, c.ClientIP())

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg)
		if err != nil {
			log.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
