package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/warbler/web-go/utils"
)

const (
	RequestIDHeader     = "X-Request-ID"
	slowRequestDuration = 2 * time.Second
)

// RequestLogger tags each request with an ID, logs its outcome and counts
// it by route and status class.
func RequestLogger(metrics *utils.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		duration := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.Requests.WithLabelValues(route, fmt.Sprintf("%dxx", status/100)).Inc()

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"duration":   duration.String(),
			"remote_ip":  c.ClientIP(),
		}
		if user := utils.GetUser(c); user != nil {
			fields["user_id"] = user.ID
		}

		entry := utils.Logger.WithFields(fields)
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request failed")
		case duration > slowRequestDuration:
			entry.Warn("Slow request detected")
		default:
			entry.Info("Request completed")
		}
	}
}

// NoCache stops browsers from caching any response.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
