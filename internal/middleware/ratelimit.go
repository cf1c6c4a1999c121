package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/prepdesk/prepdesk-backend/internal/ratelimit"
	"github.com/prepdesk/prepdesk-backend/internal/response"
)

// RateLimit throttles requests per caller under the given fixed-window
// rule. Authenticated callers are keyed by user ID so a shared NAT
// address never starves students of each other's budget; anonymous
// callers fall back to the client IP.
func RateLimit(limiter *ratelimit.Limiter, rule ratelimit.Rule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Check(c.Request.Context(), identify(c), rule)
		if err != nil {
			// Fail open: a broken counting store must not take the API
			// down with it.
			log.Warn().Err(err).Str("rule", rule.Name).Msg("rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}

func identify(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return "user:" + claims.UserID
	}
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "anon"
}
