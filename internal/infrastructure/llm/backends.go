package llm

import (
	"fmt"
	"strings"

	"content-gen-api/internal/config"
	"content-gen-api/internal/domain/generation"
)

// Backends 按 backend id（与模型 id 一致）索引的已加载后端
type Backends map[string]generation.Backend

// NewBackends 根据配置构造所有本地后端，并按 max_concurrency 包装
func NewBackends(cfg *config.Config, factory *EinoFactory) (Backends, error) {
	out := make(Backends, len(cfg.LLM.Backends))
	for id, bc := range cfg.LLM.Backends {
		b, err := newBackend(id, bc, factory)
		if err != nil {
			return nil, err
		}
		out[id] = NewSerialized(id, b, bc.MaxConcurrency)
	}
	return out, nil
}

func newBackend(id string, bc config.BackendConfig, factory *EinoFactory) (generation.Backend, error) {
	modelName := bc.Model
	if modelName == "" {
		modelName = id
	}

	switch strings.ToLower(bc.Provider) {
	case "tgi":
		return NewTGIBackend(bc.BaseURL, modelName, bc.Timeout), nil
	case "openai":
		return &ChatBackend{BackendID: id, Model: modelName, Source: factory}, nil
	case "echo", "":
		return &EchoBackend{Model: modelName}, nil
	default:
		return nil, fmt.Errorf("backend %s: unknown provider %q", id, bc.Provider)
	}
}
