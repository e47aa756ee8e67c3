// Package generation 定义文本生成后端的端口
package generation

import "context"

// 固定采样参数
const (
	DefaultTemperature       = 0.8
	DefaultTopP              = 0.9
	DefaultRepetitionPenalty = 1.2
)

// SamplingParams 单次生成的参数，零值表示使用后端默认值
type SamplingParams struct {
	// MaxLength 生成长度上限
	MaxLength int
	// NumReturnSequences 返回序列数，目前固定为 1
	NumReturnSequences int
	Temperature        float64
	TopP               float64
	RepetitionPenalty  float64
}

// FixedSampling 本地模型使用的固定采样参数
func FixedSampling(maxLength int) SamplingParams {
	return SamplingParams{
		MaxLength:          maxLength,
		NumReturnSequences: 1,
		Temperature:        DefaultTemperature,
		TopP:               DefaultTopP,
		RepetitionPenalty:  DefaultRepetitionPenalty,
	}
}

// BackendDefaults 只限制长度，其余采样参数交给后端
func BackendDefaults(maxLength int) SamplingParams {
	return SamplingParams{
		MaxLength:          maxLength,
		NumReturnSequences: 1,
	}
}

// Backend 文本生成能力：给定提示词和参数返回生成文本
type Backend interface {
	// Name 后端的可读名称
	Name() string
	// Generate 生成文本，失败时原样返回错误
	Generate(ctx context.Context, prompt string, params SamplingParams) (string, error)
	// Available 后端当前是否可用
	Available(ctx context.Context) bool
}
