// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"

	apperrors "content-gen-api/pkg/errors"
)

// ErrorResponse 错误响应结构，detail 为唯一对外暴露的诊断信息
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Error 按 AppError 的 HTTP 状态返回错误响应
func Error(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	c.JSON(appErr.HTTPStatus, ErrorResponse{Detail: appErr.PublicMessage()})
}

// AbortWithError 中止后续处理并返回错误响应
func AbortWithError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	c.AbortWithStatusJSON(appErr.HTTPStatus, ErrorResponse{Detail: appErr.PublicMessage()})
}

// BannerResponse 服务欢迎信息
type BannerResponse struct {
	Message         string `json:"message"`
	Version         string `json:"version"`
	ModelsAvailable int    `json:"models_available"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status       string   `json:"status"`
	ModelsLoaded []string `json:"models_loaded"`
}

// ReadinessCheck 单个后端的探测结果
type ReadinessCheck struct {
	Status    string `json:"status"`
	Backend   string `json:"backend"`
	LatencyMs int64  `json:"latency_ms"`
}

// ReadinessResponse 就绪检查响应
type ReadinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*ReadinessCheck `json:"checks"`
}

// LiveResponse 存活检查响应
type LiveResponse struct {
	Status string `json:"status"`
}

// ContentTypesResponse 支持的内容类型
type ContentTypesResponse struct {
	ContentTypes []string `json:"content_types"`
	Strict       bool     `json:"strict"`
}
