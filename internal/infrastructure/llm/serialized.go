package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/semaphore"

	"content-gen-api/internal/domain/generation"
	"content-gen-api/pkg/metrics"
	"content-gen-api/pkg/tracer"
)

// Serialized 限制单个后端的并发调用数
// 推理句柄非线程安全时 limit 取 1，调用按到达顺序排队
type Serialized struct {
	id    string
	inner generation.Backend
	sem   *semaphore.Weighted
}

// NewSerialized 包装后端，limit <= 0 时按 1 处理
func NewSerialized(id string, inner generation.Backend, limit int) *Serialized {
	if limit <= 0 {
		limit = 1
	}
	return &Serialized{
		id:    id,
		inner: inner,
		sem:   semaphore.NewWeighted(int64(limit)),
	}
}

// Name 内部后端的显示名
func (s *Serialized) Name() string {
	return s.inner.Name()
}

// Generate 等待空闲槽位后调用内部后端，等待期间 ctx 取消则直接返回
func (s *Serialized) Generate(ctx context.Context, prompt string, params generation.SamplingParams) (string, error) {
	ctx, span := tracer.Start(ctx, "backend.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("backend.id", s.id),
		attribute.Int("backend.max_length", params.MaxLength),
	)

	waitStart := time.Now()
	if err := s.sem.Acquire(ctx, 1); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "wait for backend slot")
		return "", err
	}
	metrics.BackendWaitDuration.WithLabelValues(s.id).Observe(time.Since(waitStart).Seconds())

	inFlight := metrics.BackendInFlight.WithLabelValues(s.id)
	inFlight.Inc()
	defer func() {
		inFlight.Dec()
		s.sem.Release(1)
	}()

	out, err := s.inner.Generate(ctx, prompt, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return out, nil
}

// Available 探测内部后端并更新可用性指标
func (s *Serialized) Available(ctx context.Context) bool {
	ok := s.inner.Available(ctx)
	v := 0.0
	if ok {
		v = 1
	}
	metrics.BackendAvailable.WithLabelValues(s.id).Set(v)
	return ok
}
