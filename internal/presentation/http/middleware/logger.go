package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware logs one line per request, tagged with a request ID and,
// once resolved further down the chain, the organization.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method

		if raw != "" {
			path = path + "?" + raw
		}

		// The organization is set after auth, but the line is written after
		// the handler ran, so it is available here when resolved.
		orgTag := "-"
		if orgID := GetOrganizationID(c); orgID != uuid.Nil {
			orgTag = orgID.String()[:8]
		}

		log.Printf("[%s] %s | %d | %v | %s | org=%s | %s",
			requestID[:8],
			method,
			statusCode,
			latency,
			clientIP,
			orgTag,
			path,
		)

		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				log.Printf("[%s] Error: %v", requestID[:8], e.Err)
			}
		}
	}
}
