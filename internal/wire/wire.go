//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"content-gen-api/internal/config"
	"content-gen-api/internal/interfaces/http/router"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(cfg *config.Config) (*router.Router, error) {
	wire.Build(
		BackendSet,
		ContentSet,
		HTTPSet,
	)
	return nil, nil
}
