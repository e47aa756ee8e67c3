package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"content-gen-api/internal/domain/generation"
	"content-gen-api/pkg/logger"
)

// ChatModelSource 提供 ChatModel 的最小依赖
type ChatModelSource interface {
	Get(ctx context.Context, backendID string) (model.BaseChatModel, error)
}

// ChatBackend 通过 Eino ChatModel 访问 OpenAI 兼容服务
// 该协议不支持 repetition_penalty，此参数被忽略
type ChatBackend struct {
	BackendID string
	Model     string
	Source    ChatModelSource

	warnOnce sync.Once
}

// Name 后端显示名
func (c *ChatBackend) Name() string {
	return fmt.Sprintf("OpenAI-compatible (%s)", c.Model)
}

// Generate 返回模型输出的补全内容
func (c *ChatBackend) Generate(ctx context.Context, prompt string, params generation.SamplingParams) (string, error) {
	if params.MaxLength <= 0 {
		return "", fmt.Errorf("openai: max_length must be positive, got %d", params.MaxLength)
	}

	chatModel, err := c.Source.Get(ctx, c.BackendID)
	if err != nil {
		return "", err
	}

	if params.RepetitionPenalty != 0 {
		c.warnOnce.Do(func() {
			logger.Warn(ctx, "repetition_penalty not supported by openai-compatible backend, ignored",
				"backend", c.BackendID)
		})
	}

	// 挂载全局回调，使调用进入 LLM 指标和链路
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      c.BackendID,
		Type:      "OpenAI",
		Component: components.ComponentOfChatModel,
	})

	msgs := []*schema.Message{schema.UserMessage(prompt)}
	outMsg, err := chatModel.Generate(ctx, msgs, buildChatOptions(params)...)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if outMsg == nil {
		return "", fmt.Errorf("openai: empty response")
	}
	return outMsg.Content, nil
}

// Available 后端已配置且可构建客户端
func (c *ChatBackend) Available(ctx context.Context) bool {
	_, err := c.Source.Get(ctx, c.BackendID)
	return err == nil
}

func buildChatOptions(params generation.SamplingParams) []model.Option {
	opts := make([]model.Option, 0, 3)
	if params.MaxLength > 0 {
		opts = append(opts, model.WithMaxTokens(params.MaxLength))
	}
	if params.Temperature != 0 {
		opts = append(opts, model.WithTemperature(float32(params.Temperature)))
	}
	if params.TopP != 0 {
		opts = append(opts, model.WithTopP(float32(params.TopP)))
	}
	return opts
}
