// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"content-gen-api/internal/application/content"
	"content-gen-api/internal/interfaces/http/dto"
	apperrors "content-gen-api/pkg/errors"
)

// BannerMessage 根路径欢迎语
const BannerMessage = "Bienvenido al AI Content Generator API"

// ContentHandler 内容生成相关接口
type ContentHandler struct {
	svc     *content.Service
	version string
}

// NewContentHandler 创建内容生成处理器
func NewContentHandler(svc *content.Service, version string) *ContentHandler {
	return &ContentHandler{svc: svc, version: version}
}

// Root 服务欢迎信息
// @Summary 服务信息
// @Tags System
// @Produce json
// @Success 200 {object} dto.BannerResponse
// @Router / [get]
func (h *ContentHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, dto.BannerResponse{
		Message:         BannerMessage,
		Version:         h.version,
		ModelsAvailable: h.svc.Registry().Len(),
	})
}

// Generate 生成内容
// @Summary 生成内容
// @Tags Content
// @Accept json
// @Produce json
// @Param body body dto.GenerateRequest true "生成请求"
// @Success 200 {object} content.GenerateResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate [post]
func (h *ContentHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			dto.Error(c, apperrors.ErrInvalidParam.WithDetail("request body too large"))
			return
		}
		dto.Error(c, apperrors.ErrInvalidParam.WithDetail("invalid request body: "+err.Error()))
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Models 列出所有注册模型
// @Summary 模型列表
// @Tags Content
// @Produce json
// @Success 200 {object} dto.ModelsResponse
// @Router /models [get]
func (h *ContentHandler) Models(c *gin.Context) {
	registry := h.svc.Registry()
	c.JSON(http.StatusOK, dto.ModelsResponse{
		Models:      registry.Map(),
		TotalModels: registry.Len(),
		FreeModels:  registry.FreeModelIDs(),
	})
}

// ContentTypes 列出已知内容类型
// @Summary 内容类型列表
// @Tags Content
// @Produce json
// @Success 200 {object} dto.ContentTypesResponse
// @Router /content-types [get]
func (h *ContentHandler) ContentTypes(c *gin.Context) {
	tpl := h.svc.Templater()
	c.JSON(http.StatusOK, dto.ContentTypesResponse{
		ContentTypes: tpl.ContentTypes(),
		Strict:       tpl.Strict(),
	})
}
