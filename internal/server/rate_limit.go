package server

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/arot/internal/observability/logger"
	"go.uber.org/zap"
)

// WriteRateLimit throttles mutating calls per actor, falling back to the
// client address when no actor header is sent.
func (s *Server) WriteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		key := strings.TrimSpace(c.GetHeader(logger.ActorHeader))
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		res := s.limiter.Allow(c.Request.Context(), key)
		if !res.Allowed {
			logger.FromContext(c.Request.Context()).Warn("write rate limit exceeded",
				zap.String("route", c.FullPath()),
			)
			seconds := int(math.Ceil(res.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			AbortWithError(c, ErrRateLimited)
			return
		}

		c.Next()
	}
}
