package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"content-gen-api/internal/application/content"
	"content-gen-api/internal/interfaces/http/dto"
)

const readinessTimeout = 2 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	dispatcher *content.Dispatcher
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(dispatcher *content.Dispatcher) *HealthHandler {
	return &HealthHandler{dispatcher: dispatcher}
}

// Health 返回本地已加载的模型
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:       "healthy",
		ModelsLoaded: h.dispatcher.LoadedModels(),
	})
}

// Ready 并行探测所有本地后端，任一不可用即返回 503
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} dto.ReadinessResponse
// @Failure 503 {object} dto.ReadinessResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	backends := h.dispatcher.Backends()
	checks := make(map[string]*dto.ReadinessCheck, len(backends))
	for id, b := range backends {
		checks[id] = &dto.ReadinessCheck{Status: "unknown", Backend: b.Name()}
	}

	g, gctx := errgroup.WithContext(ctx)
	for id, b := range backends {
		check := checks[id]
		g.Go(func() error {
			start := time.Now()
			ok := b.Available(gctx)
			check.LatencyMs = time.Since(start).Milliseconds()
			if ok {
				check.Status = "ok"
			} else {
				check.Status = "unavailable"
			}
			return nil
		})
	}
	_ = g.Wait()

	resp := dto.ReadinessResponse{Status: "ok", Checks: checks}
	for _, check := range checks {
		if check.Status != "ok" {
			resp.Status = "not_ready"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} dto.LiveResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.LiveResponse{Status: "ok"})
}
