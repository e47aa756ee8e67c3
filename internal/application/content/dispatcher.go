package content

import (
	"context"
	"fmt"

	"content-gen-api/internal/domain/catalog"
	"content-gen-api/internal/domain/generation"
	apperrors "content-gen-api/pkg/errors"
	"content-gen-api/pkg/logger"
)

// SimulatedMarker 模拟生成时加在输出前的标记
func SimulatedMarker(modelID string) string {
	return fmt.Sprintf("[Usando modelo %s]\n\n", modelID)
}

// Dispatcher 将请求分发到本地后端，未加载的模型按配置模拟或拒绝
type Dispatcher struct {
	backends  map[string]generation.Backend
	loaded    []string
	defaultID string
	simulate  bool
}

// NewDispatcher 创建分发器，默认后端必须存在
func NewDispatcher(registry *catalog.Registry, backends map[string]generation.Backend, defaultID string, simulate bool) (*Dispatcher, error) {
	if _, ok := backends[defaultID]; !ok {
		return nil, fmt.Errorf("default backend %q is not loaded", defaultID)
	}

	cp := make(map[string]generation.Backend, len(backends))
	for id, b := range backends {
		cp[id] = b
	}

	// 按注册表顺序记录已加载模型
	loaded := make([]string, 0, len(backends))
	for _, id := range registry.IDs() {
		if _, ok := cp[id]; ok {
			loaded = append(loaded, id)
		}
	}

	return &Dispatcher{
		backends:  cp,
		loaded:    loaded,
		defaultID: defaultID,
		simulate:  simulate,
	}, nil
}

// Generate 调用后端生成文本，后端错误原样向上传递
func (d *Dispatcher) Generate(ctx context.Context, modelID, prompt string, length int) (string, error) {
	if b, ok := d.backends[modelID]; ok {
		out, err := b.Generate(ctx, prompt, generation.FixedSampling(length))
		if err != nil {
			return "", generationError(err)
		}
		return out, nil
	}

	if !d.simulate {
		return "", apperrors.ErrModelNotServed.
			WithDetail(fmt.Sprintf("model %s is not served by this deployment", modelID))
	}

	logger.Debug(ctx, "simulating gated model with default backend",
		"requested_model", modelID,
		"backend", d.defaultID,
	)
	out, err := d.backends[d.defaultID].Generate(ctx, prompt, generation.BackendDefaults(length))
	if err != nil {
		return "", generationError(err)
	}
	return SimulatedMarker(modelID) + out, nil
}

// LoadedModels 本地已加载的后端 id，按注册表顺序
func (d *Dispatcher) LoadedModels() []string {
	out := make([]string, len(d.loaded))
	copy(out, d.loaded)
	return out
}

// Backends 返回后端快照，用于就绪探测
func (d *Dispatcher) Backends() map[string]generation.Backend {
	cp := make(map[string]generation.Backend, len(d.backends))
	for id, b := range d.backends {
		cp[id] = b
	}
	return cp
}

// generationError 非业务错误统一映射为 500，detail 保留原始错误文本
func generationError(err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.ErrGenerationFailed.WithDetail(err.Error()).WithError(err)
}
