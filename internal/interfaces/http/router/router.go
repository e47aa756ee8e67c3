// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"content-gen-api/internal/config"
	"content-gen-api/internal/interfaces/http/handler"
	"content-gen-api/internal/interfaces/http/middleware"
)

// Router HTTP 路由器
type Router struct {
	engine  *gin.Engine
	cfg     *config.Config
	content *handler.ContentHandler
	health  *handler.HealthHandler
}

// New 创建路由器并注册全部中间件和路由
func New(cfg *config.Config, contentHandler *handler.ContentHandler, healthHandler *handler.HealthHandler) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:  gin.New(),
		cfg:     cfg,
		content: contentHandler,
		health:  healthHandler,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name, "/health", "/live", "/ready", r.cfg.Observability.Metrics.Path))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}

	if r.cfg.Observability.Logging.AccessLog {
		r.engine.Use(middleware.AccessLog())
	}

	r.engine.Use(middleware.BodyLimit(r.cfg.Server.HTTP.MaxBodyBytes))
}

func (r *Router) setupRoutes() {
	// 系统端点
	r.engine.GET("/", r.content.Root)
	r.engine.GET("/health", r.health.Health)
	r.engine.GET("/ready", r.health.Ready)
	r.engine.GET("/live", r.health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 内容生成
	r.engine.POST("/generate", r.content.Generate)
	r.engine.GET("/models", r.content.Models)
	r.engine.GET("/content-types", r.content.ContentTypes)
}
