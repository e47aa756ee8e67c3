package wire

import (
	"github.com/google/wire"

	"content-gen-api/internal/application/auth"
	"content-gen-api/internal/application/content"
	"content-gen-api/internal/config"
	"content-gen-api/internal/domain/catalog"
	"content-gen-api/internal/domain/generation"
	"content-gen-api/internal/infrastructure/llm"
	"content-gen-api/internal/interfaces/http/handler"
	"content-gen-api/internal/interfaces/http/router"
)

// BackendSet 生成后端
var BackendSet = wire.NewSet(
	llm.NewEinoFactory,
	ProvideBackends,
)

// ContentSet 内容生成应用层
var ContentSet = wire.NewSet(
	ProvideRegistry,
	ProvideAuthenticator,
	ProvideTemplater,
	ProvideDispatcher,
	content.NewService,
)

// HTTPSet HTTP 层
var HTTPSet = wire.NewSet(
	ProvideContentHandler,
	handler.NewHealthHandler,
	router.New,
)

// ProvideRegistry 内置模型注册表
func ProvideRegistry() *catalog.Registry {
	return catalog.NewDefaultRegistry()
}

// ProvideAuthenticator 静态 key 鉴权
func ProvideAuthenticator(cfg *config.Config) auth.Authenticator {
	return auth.NewStaticKeyAuthenticator(cfg.Security.FreeTierKeys)
}

// ProvideTemplater 提示词模板器
func ProvideTemplater(cfg *config.Config) *content.Templater {
	return content.NewTemplater(cfg.Prompt.Prefixes, cfg.Features.StrictContentType)
}

// ProvideBackends 按配置加载本地后端
func ProvideBackends(cfg *config.Config, factory *llm.EinoFactory) (map[string]generation.Backend, error) {
	backends, err := llm.NewBackends(cfg, factory)
	if err != nil {
		return nil, err
	}
	return backends, nil
}

// ProvideDispatcher 后端分发器
func ProvideDispatcher(cfg *config.Config, registry *catalog.Registry, backends map[string]generation.Backend) (*content.Dispatcher, error) {
	return content.NewDispatcher(registry, backends, cfg.LLM.DefaultBackend, cfg.Features.SimulateGatedModels)
}

// ProvideContentHandler 内容处理器，版本号来自 app.version
func ProvideContentHandler(cfg *config.Config, svc *content.Service) *handler.ContentHandler {
	return handler.NewContentHandler(svc, cfg.App.Version)
}
