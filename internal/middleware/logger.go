package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eduportal/internal/pkg/response"
)

// ErrorLogger logs request errors and 5xx responses and recovers from
// panics with a JSON 500.
func ErrorLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(log, c, start, "panic", err, zap.ByteString("stack", debug.Stack()))
				response.AbortError(c, http.StatusInternalServerError, "internal server error")
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					logRequestError(log, c, start, "http_error", fmt.Errorf("status=%d", c.Writer.Status()))
				}
				return
			}

			for _, err := range c.Errors {
				fields := []zap.Field{}
				if err.Meta != nil {
					fields = append(fields, zap.Any("meta", err.Meta))
				}
				logRequestError(log, c, start, fmt.Sprintf("%v", err.Type), err.Err, fields...)
			}
		}()

		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("size", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", RequestIDFrom(c)),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func logRequestError(log *zap.Logger, c *gin.Context, start time.Time, errType string, err error, extra ...zap.Field) {
	fields := []zap.Field{
		zap.String("type", errType),
		zap.Int("status", c.Writer.Status()),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", RequestIDFrom(c)),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	}
	log.Error("request_error", append(fields, extra...)...)
}
