package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"content-gen-api/internal/interfaces/http/dto"
	apperrors "content-gen-api/pkg/errors"
	"content-gen-api/pkg/logger"
)

// Recovery Panic 恢复中间件，返回 500 {detail}
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("%v", rec)
				logger.Error(c.Request.Context(), "panic recovered", err,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				dto.AbortWithError(c, apperrors.ErrInternalError.WithDetail(err.Error()))
			}
		}()

		c.Next()
	}
}
