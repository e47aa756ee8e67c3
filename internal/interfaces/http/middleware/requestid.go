package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"content-gen-api/pkg/logger"
)

const (
	// RequestIDHeader 请求 ID 头
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLen = 128
)

// RequestID 透传或生成请求 ID，并写入 logger context
// 超长的外部 ID 会被替换
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		c.Set(string(logger.RequestIDKey), requestID)
		c.Request = c.Request.WithContext(
			logger.WithContext(c.Request.Context(), logger.RequestIDKey, requestID),
		)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}
