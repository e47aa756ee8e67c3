// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// DefaultAllowedOrigin 前端开发服务器地址
const DefaultAllowedOrigin = "http://localhost:3000"

// AnyHeader 允许任意请求头，预检时原样回显 Access-Control-Request-Headers
const AnyHeader = "*"

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	// AllowedHeaders 为空或包含 "*" 时允许任意请求头
	AllowedHeaders []string
}

// CORS 跨域中间件，允许携带凭证，因此来源必须显式列出
// 携带凭证时浏览器不认 "*"，任意请求头只能通过回显实现
func CORS(cfg CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{DefaultAllowedOrigin}
	}
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	}

	headers, anyHeader := splitAnyHeader(cfg.AllowedHeaders)
	if len(headers) == 0 {
		headers = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader, "X-API-Key"}
	}

	handler := cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     headers,
		ExposeHeaders:    []string{RequestIDHeader, TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	if !anyHeader {
		return handler
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Writer = &echoHeadersWriter{ResponseWriter: c.Writer, requested: requested}
			}
		}
		handler(c)
	}
}

// splitAnyHeader 去掉 "*"，返回其余请求头以及是否允许任意请求头
func splitAnyHeader(headers []string) ([]string, bool) {
	if len(headers) == 0 {
		return nil, true
	}
	out := make([]string, 0, len(headers))
	anyHeader := false
	for _, h := range headers {
		if h == AnyHeader {
			anyHeader = true
			continue
		}
		out = append(out, h)
	}
	return out, anyHeader
}

// echoHeadersWriter 在写出状态码前把允许的请求头替换为预检请求中声明的请求头
// cors.New 的预检头是启动时固定生成的，只能在写出前覆盖
type echoHeadersWriter struct {
	gin.ResponseWriter
	requested string
}

func (w *echoHeadersWriter) echo() {
	h := w.ResponseWriter.Header()
	// 来源被拒绝时没有 Allow-Origin，不回显
	if h.Get("Access-Control-Allow-Origin") != "" {
		h.Set("Access-Control-Allow-Headers", w.requested)
	}
}

func (w *echoHeadersWriter) WriteHeader(code int) {
	w.echo()
	w.ResponseWriter.WriteHeader(code)
}

func (w *echoHeadersWriter) WriteHeaderNow() {
	w.echo()
	w.ResponseWriter.WriteHeaderNow()
}
