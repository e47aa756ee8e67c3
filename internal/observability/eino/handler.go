// Package eino 注册 Eino ChatModel 全局回调，记录 LLM 调用指标和 span
package eino

import (
	"context"
	"time"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"content-gen-api/pkg/metrics"
	"content-gen-api/pkg/tracer"
)

type callStateKey struct{}

// callState 在 OnStart 与 OnEnd/OnError 之间传递
type callState struct {
	start time.Time
	model string
}

func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *model.CallbackInput) context.Context {
			state := &callState{start: time.Now(), model: modelName(info, input)}
			ctx = context.WithValue(ctx, callStateKey{}, state)

			attrs := []attribute.KeyValue{attribute.String("llm.model", state.model)}
			if info != nil {
				attrs = append(attrs, attribute.String("eino.node_name", info.Name))
			}
			ctx, _ = tracer.Start(ctx, "llm.generate", trace.WithAttributes(attrs...))
			return ctx
		},

		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			state := stateFromContext(ctx)
			name := state.model
			if output != nil && output.Config != nil && output.Config.Model != "" {
				name = output.Config.Model
			}

			metrics.LLMCallTotal.WithLabelValues(name, "success").Inc()
			metrics.LLMCallDuration.WithLabelValues(name).Observe(time.Since(state.start).Seconds())

			span := trace.SpanFromContext(ctx)
			if output != nil && output.TokenUsage != nil {
				usage := output.TokenUsage
				metrics.LLMTokensUsed.WithLabelValues(name, "prompt").Add(float64(usage.PromptTokens))
				metrics.LLMTokensUsed.WithLabelValues(name, "completion").Add(float64(usage.CompletionTokens))
				span.SetAttributes(
					attribute.Int("llm.prompt_tokens", usage.PromptTokens),
					attribute.Int("llm.completion_tokens", usage.CompletionTokens),
				)
			}
			span.End()
			return ctx
		},

		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			state := stateFromContext(ctx)
			metrics.LLMCallTotal.WithLabelValues(state.model, "error").Inc()
			metrics.LLMCallDuration.WithLabelValues(state.model).Observe(time.Since(state.start).Seconds())

			span := trace.SpanFromContext(ctx)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return ctx
		},
	}
}

// stateFromContext OnStart 未执行时返回零耗时的占位状态
func stateFromContext(ctx context.Context) *callState {
	if s, ok := ctx.Value(callStateKey{}).(*callState); ok {
		return s
	}
	return &callState{start: time.Now(), model: "unknown"}
}

func modelName(info *einocb.RunInfo, in *model.CallbackInput) string {
	if in != nil && in.Config != nil && in.Config.Model != "" {
		return in.Config.Model
	}
	if info != nil && info.Name != "" {
		return info.Name
	}
	return "unknown"
}
