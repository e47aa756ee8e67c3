// Package content 实现内容生成的应用层：提示词模板、后端分发和请求编排
package content

import (
	"sort"

	apperrors "content-gen-api/pkg/errors"
)

// Templater 按内容类型给提示词加前缀
type Templater struct {
	prefixes map[string]string
	strict   bool
}

// NewTemplater 创建模板器，strict 为 true 时未知内容类型返回错误
func NewTemplater(prefixes map[string]string, strict bool) *Templater {
	cp := make(map[string]string, len(prefixes))
	for k, v := range prefixes {
		cp[k] = v
	}
	return &Templater{prefixes: cp, strict: strict}
}

// Format 返回 前缀 + prompt；宽松模式下未知类型前缀为空
func (t *Templater) Format(contentType, prompt string) (string, error) {
	prefix, ok := t.prefixes[contentType]
	if !ok && t.strict {
		return "", apperrors.ErrUnsupportedContentType.
			WithDetail("unsupported content type: " + contentType)
	}
	return prefix + prompt, nil
}

// ContentTypes 已知内容类型，按字母排序
func (t *Templater) ContentTypes() []string {
	types := make([]string, 0, len(t.prefixes))
	for k := range t.prefixes {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// Strict 是否拒绝未知内容类型
func (t *Templater) Strict() bool {
	return t.strict
}
