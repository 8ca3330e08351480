package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairyhunter13/printshop/internal/obs"
)

// requestIDKey is the gin context key carrying the request id.
const requestIDKey = "request_id"

// RequestID returns the id assigned to the current request, if any.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// WithRequestID honors an incoming X-Request-Id header or assigns a fresh
// UUID, and echoes the value on the response.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

// WithLogging emits a structured log line for each request.
func WithLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()
		lat := time.Since(start)
		obs.Logger.Info("http_request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"latency_ms", float64(lat.Microseconds())/1000.0,
			"request_id", RequestID(c),
		)
	}
}
