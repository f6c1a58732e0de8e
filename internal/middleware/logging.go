package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmorgan81/lookalike/internal/log"
	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request and stores a logger tagged with
// the request id in the request context for downstream handlers.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.FromContextOrDiscard(context.Background())
	}

	return func(c *gin.Context) {
		startedAt := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		scoped := logger.With("request_id", GetRequestID(c))
		c.Request = c.Request.WithContext(log.NewContext(c.Request.Context(), scoped))

		defer func() {
			status := c.Writer.Status()
			if status < http.StatusBadRequest && len(c.Errors) == 0 && isNoisyPath(path) {
				return
			}

			fields := []any{
				"method", method,
				"path", path,
				"status", status,
				"latency", time.Since(startedAt),
				"bytes", c.Writer.Size(),
			}
			if len(c.Errors) > 0 {
				fields = append(fields, "errors", c.Errors.String())
			}

			switch {
			case status >= 500:
				scoped.Error("http_request", fields...)
			case status >= 400:
				scoped.Warn("http_request", fields...)
			default:
				scoped.Info("http_request", fields...)
			}
		}()

		c.Next()
	}
}

func isNoisyPath(path string) bool {
	switch path {
	case "/health", "/metrics":
		return true
	default:
		return false
	}
}
