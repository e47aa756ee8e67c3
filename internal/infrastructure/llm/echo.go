// Package llm 提供文本生成后端实现
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"content-gen-api/internal/domain/generation"
)

var echoVocabulary = []string{
	"the", "quiet", "light", "of", "morning", "falls", "across", "an", "open", "field",
	"and", "every", "story", "begins", "again", "with", "a", "single", "word",
}

// EchoBackend 本地确定性后端，用于开发和测试
// 输出为提示词加上固定词表续写，总词数不超过 MaxLength
type EchoBackend struct {
	Model string
	// Delay 模拟推理耗时
	Delay time.Duration
}

// Name 后端显示名
func (e *EchoBackend) Name() string {
	return fmt.Sprintf("Echo (%s)", e.Model)
}

// Generate 提示词后按词表续写到 MaxLength 个词，提示词已够长时原样返回
func (e *EchoBackend) Generate(ctx context.Context, prompt string, params generation.SamplingParams) (string, error) {
	if params.MaxLength <= 0 {
		return "", fmt.Errorf("echo: max_length must be positive, got %d", params.MaxLength)
	}
	if params.TopP < 0 || params.TopP > 1 {
		return "", fmt.Errorf("echo: top_p must be in [0, 1], got %v", params.TopP)
	}
	if params.Temperature < 0 {
		return "", fmt.Errorf("echo: temperature must not be negative, got %v", params.Temperature)
	}

	if e.Delay > 0 {
		select {
		case <-time.After(e.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	words := strings.Fields(prompt)
	if len(words) >= params.MaxLength {
		return prompt, nil
	}

	var b strings.Builder
	b.WriteString(prompt)
	for i := 0; len(words)+i < params.MaxLength; i++ {
		b.WriteByte(' ')
		b.WriteString(echoVocabulary[i%len(echoVocabulary)])
	}
	return b.String(), nil
}

// Available 始终可用
func (e *EchoBackend) Available(ctx context.Context) bool {
	return true
}
