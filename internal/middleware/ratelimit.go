package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/sitecms/internal/ratelimit"
	"github.com/charlesng35/sitecms/pkg/errors"
	"github.com/charlesng35/sitecms/pkg/logger"
	"github.com/charlesng35/sitecms/pkg/metrics"
	"github.com/charlesng35/sitecms/pkg/response"
)

// IdentityFunc derives the rate limit identity of a request.
type IdentityFunc func(c *gin.Context) string

// ClientIP identifies requests by the client address gin resolves from trusted proxies.
func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimit counts every request against policy and answers 429 once the window is exhausted.
// When the shared store is unreachable the request is let through and the failure logged.
func RateLimit(limiter *ratelimit.Limiter, policy ratelimit.Policy, identity IdentityFunc) gin.HandlerFunc {
	if identity == nil {
		identity = ClientIP
	}

	return func(c *gin.Context) {
		if limiter == nil || !policy.Enabled() {
			c.Next()
			return
		}

		decision, err := limiter.Check(c.Request.Context(), identity(c), policy)
		if err != nil {
			metrics.RateLimitDecisions.WithLabelValues(policy.Name, "error").Inc()
			logger.WithModule("ratelimit").Warn("rate limit store unavailable",
				zap.String("policy", policy.Name),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			metrics.RateLimitDecisions.WithLabelValues(policy.Name, "rejected").Inc()
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(decision)))
			response.Abort(c, errors.ErrRateLimit)
			return
		}

		metrics.RateLimitDecisions.WithLabelValues(policy.Name, "allowed").Inc()
		c.Next()
	}
}

func retryAfterSeconds(d ratelimit.Decision) int {
	seconds := int(math.Ceil(d.RetryAfter.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
