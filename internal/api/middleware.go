package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/escape-the-danger/internal/constants"
	"github.com/ericogr/escape-the-danger/internal/logging"
)

// RequestLogger logs every request through the structured logger instead
// of gin's text logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := logging.Fields{
			constants.LogFieldMethod:   c.Request.Method,
			constants.LogFieldPath:     c.Request.URL.Path,
			constants.LogFieldStatus:   c.Writer.Status(),
			constants.LogFieldLatency:  time.Since(start).Milliseconds(),
			constants.LogFieldClientIP: c.ClientIP(),
		}
		switch {
		case c.Writer.Status() >= 500:
			logging.Warn("request", fields)
		case c.Request.URL.Path == constants.RouteAPIPrefix+constants.RouteHealthz:
			logging.Debug("request", fields)
		default:
			logging.Info("request", fields)
		}
	}
}

func noCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
		c.Next()
	}
}
