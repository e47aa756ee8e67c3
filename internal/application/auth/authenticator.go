// Package auth 提供模型访问鉴权
package auth

import (
	"context"
	"crypto/subtle"

	"content-gen-api/internal/domain/catalog"
	apperrors "content-gen-api/pkg/errors"
)

// Authenticator 判断请求是否可以使用指定模型
// 返回 nil 表示放行，拒绝时返回 *errors.AppError
type Authenticator interface {
	Authenticate(ctx context.Context, model catalog.ModelConfig, apiKey string) error
}

// KeyStore 免费模型 -> 唯一可用 key 的静态映射
type KeyStore map[string]string

// StaticKeyAuthenticator 基于静态 key 比较的鉴权
//   - 需要 key 的模型：只要求 key 非空，不校验内容
//   - 免费模型：key 必须与 KeyStore 中配置的值完全一致
type StaticKeyAuthenticator struct {
	keys KeyStore
}

// NewStaticKeyAuthenticator 创建静态 key 鉴权器
func NewStaticKeyAuthenticator(keys map[string]string) *StaticKeyAuthenticator {
	cp := make(KeyStore, len(keys))
	for id, k := range keys {
		cp[id] = k
	}
	return &StaticKeyAuthenticator{keys: cp}
}

// Authenticate 实现 Authenticator
func (a *StaticKeyAuthenticator) Authenticate(ctx context.Context, model catalog.ModelConfig, apiKey string) error {
	if model.RequiresAPIKey {
		if apiKey == "" {
			return apperrors.ErrMissingAPIKey
		}
		return nil
	}

	// 未配置 key 的免费模型只接受同样为空的 key
	expected := a.keys[model.ID]
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
		return apperrors.ErrInvalidAPIKey
	}
	return nil
}
