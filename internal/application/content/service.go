package content

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"content-gen-api/internal/application/auth"
	"content-gen-api/internal/domain/catalog"
	apperrors "content-gen-api/pkg/errors"
	"content-gen-api/pkg/logger"
	"content-gen-api/pkg/metrics"
	"content-gen-api/pkg/tracer"
)

// 请求缺省值
const (
	DefaultLength = 100
	DefaultModel  = "gpt2"
)

// StatusSuccess 成功响应的 status 字段
const StatusSuccess = "success"

// GenerateInput 已应用缺省值的生成请求
type GenerateInput struct {
	Prompt      string
	ContentType string
	Length      int
	Model       string
	APIKey      string
}

// GenerateResult 生成结果
type GenerateResult struct {
	Status    string              `json:"status"`
	Content   string              `json:"content"`
	ModelUsed string              `json:"model_used"`
	ModelInfo catalog.ModelConfig `json:"model_info"`
}

// Service 内容生成编排：校验 -> 鉴权 -> 模板 -> 分发 -> 组装
type Service struct {
	registry   *catalog.Registry
	auth       auth.Authenticator
	templater  *Templater
	dispatcher *Dispatcher
}

// NewService 创建生成服务
func NewService(registry *catalog.Registry, authenticator auth.Authenticator, templater *Templater, dispatcher *Dispatcher) *Service {
	return &Service{
		registry:   registry,
		auth:       authenticator,
		templater:  templater,
		dispatcher: dispatcher,
	}
}

// Generate 处理一次生成请求，返回的错误均为 *AppError
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "content.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("generation.model", in.Model),
		attribute.String("generation.content_type", in.ContentType),
		attribute.Int("generation.requested_length", in.Length),
	)

	start := time.Now()
	result, err := s.generate(ctx, in)

	label := metricModelLabel(s.registry, in.Model)
	if err != nil {
		appErr := apperrors.AsAppError(err)
		status := "rejected"
		if appErr.HTTPStatus >= 500 {
			status = "failed"
			logger.Error(ctx, "content generation failed", err, "model", in.Model)
		} else {
			logger.Warn(ctx, "content generation rejected", "model", in.Model, "code", appErr.Code)
		}
		metrics.GenerationTotal.WithLabelValues(label, status).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, appErr.PublicMessage())
		return nil, appErr
	}

	metrics.GenerationTotal.WithLabelValues(label, "success").Inc()
	metrics.GenerationDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	metrics.GeneratedChars.WithLabelValues(label).Observe(float64(len([]rune(result.Content))))
	logger.Info(ctx, "content generated",
		"model", in.Model,
		"content_type", in.ContentType,
		"chars", len(result.Content),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Service) generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	model, ok := s.registry.Lookup(in.Model)
	if !ok {
		return nil, apperrors.ErrUnsupportedModel.WithDetail("unsupported model: " + in.Model)
	}

	if err := s.auth.Authenticate(ctx, model, in.APIKey); err != nil {
		return nil, err
	}

	// 非正长度原样下发，由后端拒绝
	length := model.ClampLength(in.Length)

	prompt, err := s.templater.Format(in.ContentType, in.Prompt)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithContext(ctx, logger.ModelKey, model.ID)
	logger.Debug(ctx, "dispatching generation", "effective_length", length)

	text, err := s.dispatcher.Generate(ctx, model.ID, prompt, length)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Status:    StatusSuccess,
		Content:   text,
		ModelUsed: model.ID,
		ModelInfo: model,
	}, nil
}

// Registry 模型注册表
func (s *Service) Registry() *catalog.Registry {
	return s.registry
}

// Templater 提示词模板器
func (s *Service) Templater() *Templater {
	return s.templater
}

// Dispatcher 后端分发器
func (s *Service) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// metricModelLabel 未注册的模型统一记为 unknown，避免标签基数膨胀
func metricModelLabel(registry *catalog.Registry, id string) string {
	if _, ok := registry.Lookup(id); ok {
		return id
	}
	return "unknown"
}
