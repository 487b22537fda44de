package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/catalog/internal/logger"
)

const (
	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin context key holding the request id.
	ContextKeyRequestID = "request_id"
)

// RequestLogger assigns every request an id (reusing one sent by the
// caller) and writes one structured log line when it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		log := logger.Get()
		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// CORSMiddleware allows cross-origin calls from the configured origins.
// A "*" entry allows any origin. Requests without an Origin header are
// not affected; requests from other origins are rejected with 403.
func CORSMiddleware(origins []string) (gin.HandlerFunc, error) {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", HeaderRequestID}
	cfg.ExposeHeaders = []string{HeaderRequestID}
	cfg.MaxAge = 12 * time.Hour

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cors.New(cfg), nil
}
