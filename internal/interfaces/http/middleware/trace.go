package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	"content-gen-api/pkg/logger"
	"content-gen-api/pkg/tracer"
)

// TraceIDHeader 响应中的 trace id 头
const TraceIDHeader = "X-Trace-ID"

// Trace OpenTelemetry 追踪中间件，探针类路径不产生 span
func Trace(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, skipped := skip[r.URL.Path]
		return !skipped
	}))
}

// TraceContext 将 trace_id / span_id 注入 logger context 和响应头
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if traceID := tracer.TraceID(c.Request.Context()); traceID != "" {
			spanID := trace.SpanFromContext(c.Request.Context()).SpanContext().SpanID().String()

			c.Set(string(logger.TraceIDKey), traceID)
			ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
			c.Request = c.Request.WithContext(ctx)
			c.Header(TraceIDHeader, traceID)
		}

		c.Next()
	}
}
