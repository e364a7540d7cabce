package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/ratelimit"
)

// RateLimiter builds per-resource limiting middleware
type RateLimiter struct {
	limiter ratelimit.Limiter
	logger  zerolog.Logger
}

// NewRateLimiter creates a RateLimiter. A nil limiter disables limiting.
func NewRateLimiter(limiter ratelimit.Limiter, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{limiter: limiter, logger: logger}
}

// Limit throttles resource per caller, keyed by user id or client IP.
// Limiter failures let the request through.
func (r *RateLimiter) Limit(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r == nil || r.limiter == nil {
			c.Next()
			return
		}

		id := c.ClientIP()
		if userID := UserID(c); userID != 0 {
			id = strconv.FormatInt(userID, 10)
		}

		allowed, err := r.limiter.Allow(c.Request.Context(), resource, id)
		if err != nil {
			r.logger.Warn().Err(err).Str("resource", resource).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			detail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, "Too many requests").
				WithDetails("Please slow down and try again shortly")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(detail))
			return
		}
		c.Next()
	}
}
