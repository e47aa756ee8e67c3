package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"content-gen-api/pkg/logger"
)

// AccessLog 每个请求一行结构化访问日志，5xx 记为 error 级别
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last
			}
			logger.Error(ctx, "http request", err, args...)
		case status >= 400:
			logger.Warn(ctx, "http request", args...)
		default:
			logger.Info(ctx, "http request", args...)
		}
	}
}
