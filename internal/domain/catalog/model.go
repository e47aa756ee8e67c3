// Package catalog 提供模型元数据注册表
package catalog

import (
	"fmt"
	"strings"
)

// ModelConfig 模型元数据，进程启动时确定，之后只读
type ModelConfig struct {
	ID             string `json:"-"`
	Name           string `json:"name"`
	RequiresAPIKey bool   `json:"requires_api_key"`
	MaxLength      int    `json:"max_length"`
	Description    string `json:"description"`
}

// ClampLength 将请求长度限制在模型允许的最大长度内
func (m ModelConfig) ClampLength(requested int) int {
	if requested > m.MaxLength {
		return m.MaxLength
	}
	return requested
}

// DefaultModels 内置模型表
func DefaultModels() []ModelConfig {
	return []ModelConfig{
		{
			ID:             "gpt2",
			Name:           "gpt2",
			RequiresAPIKey: false,
			MaxLength:      1000,
			Description:    "Modelo base de OpenAI para generación de texto",
		},
		{
			ID:             "gpt3",
			Name:           "text-davinci-003",
			RequiresAPIKey: true,
			MaxLength:      4000,
			Description:    "Modelo avanzado de OpenAI con mayor capacidad",
		},
		{
			ID:             "gpt4",
			Name:           "gpt-4",
			RequiresAPIKey: true,
			MaxLength:      8000,
			Description:    "Última versión del modelo GPT con capacidades multimodales",
		},
		{
			ID:             "llama2",
			Name:           "meta-llama/Llama-2-7b-chat-hf",
			RequiresAPIKey: true,
			MaxLength:      4000,
			Description:    "Modelo de código abierto de Meta",
		},
		{
			ID:             "claude",
			Name:           "anthropic/claude-2",
			RequiresAPIKey: true,
			MaxLength:      100000,
			Description:    "Modelo de Anthropic con enfoque en seguridad",
		},
		{
			ID:             "deepseek",
			Name:           "deepseek-ai/deepseek-coder-6.7b-base",
			RequiresAPIKey: true,
			MaxLength:      4000,
			Description:    "Especializado en generación de código y texto técnico",
		},
		{
			ID:             "bloom",
			Name:           "bigscience/bloom-560m",
			RequiresAPIKey: false,
			MaxLength:      2000,
			Description:    "Modelo multilingüe de código abierto",
		},
	}
}

// Registry 模型注册表，构造后不可变
type Registry struct {
	order  []string
	models map[string]ModelConfig
}

// NewRegistry 按注册顺序创建注册表
func NewRegistry(models ...ModelConfig) (*Registry, error) {
	r := &Registry{
		order:  make([]string, 0, len(models)),
		models: make(map[string]ModelConfig, len(models)),
	}
	for _, m := range models {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, fmt.Errorf("model id is empty")
		}
		if m.MaxLength <= 0 {
			return nil, fmt.Errorf("model %s: max_length must be positive, got %d", id, m.MaxLength)
		}
		if _, dup := r.models[id]; dup {
			return nil, fmt.Errorf("model %s registered twice", id)
		}
		m.ID = id
		r.order = append(r.order, id)
		r.models[id] = m
	}
	return r, nil
}

// NewDefaultRegistry 使用内置模型表创建注册表
func NewDefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultModels()...)
	if err != nil {
		panic(fmt.Sprintf("built-in model table is invalid: %v", err))
	}
	return r
}

// Lookup 查询模型
func (r *Registry) Lookup(id string) (ModelConfig, bool) {
	m, ok := r.models[id]
	return m, ok
}

// Len 模型数量
func (r *Registry) Len() int {
	return len(r.order)
}

// All 按注册顺序返回全部模型
func (r *Registry) All() []ModelConfig {
	out := make([]ModelConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id])
	}
	return out
}

// Map 返回 id -> ModelConfig 的副本
func (r *Registry) Map() map[string]ModelConfig {
	out := make(map[string]ModelConfig, len(r.models))
	for id, m := range r.models {
		out[id] = m
	}
	return out
}

// FreeModelIDs 返回不需要 API key 的模型 id
func (r *Registry) FreeModelIDs() []string {
	out := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if !r.models[id].RequiresAPIKey {
			out = append(out, id)
		}
	}
	return out
}

// IDs 按注册顺序返回全部模型 id
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
