package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"content-gen-api/internal/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// EinoFactory 管理 OpenAI 兼容后端的 Eino ChatModel 实例
type EinoFactory struct {
	backends map[string]config.BackendConfig
	models   map[string]model.BaseChatModel
	mu       sync.RWMutex
}

// NewEinoFactory 创建 Eino 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		backends: cfg.LLM.Backends,
		models:   make(map[string]model.BaseChatModel),
	}
}

// Get 获取指定后端的 ChatModel，首次调用时创建
func (f *EinoFactory) Get(ctx context.Context, backendID string) (model.BaseChatModel, error) {
	f.mu.RLock()
	m, ok := f.models[backendID]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[backendID]; ok {
		return m, nil
	}

	backendCfg, ok := f.backends[backendID]
	if !ok {
		return nil, fmt.Errorf("backend %s not found in LLM config", backendID)
	}
	if !strings.EqualFold(backendCfg.Provider, "openai") {
		return nil, fmt.Errorf("backend %s uses provider %s, not openai", backendID, backendCfg.Provider)
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  backendCfg.APIKey,
		BaseURL: backendCfg.BaseURL,
		Model:   backendCfg.Model,
		Timeout: backendCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model for %s: %w", backendID, err)
	}

	f.models[backendID] = chatModel
	return chatModel, nil
}

// Register 注入已构造的 ChatModel（测试或自定义实现）
func (f *EinoFactory) Register(backendID string, m model.BaseChatModel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models[backendID] = m
}
