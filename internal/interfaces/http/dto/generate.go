package dto

import (
	"content-gen-api/internal/application/content"
	"content-gen-api/internal/domain/catalog"
)

// GenerateRequest 生成请求
// prompt 与 content_type 必须出现，但允许为空字符串
type GenerateRequest struct {
	Prompt      *string `json:"prompt" binding:"required"`
	ContentType *string `json:"content_type" binding:"required"`
	Length      *int    `json:"length"`
	Model       *string `json:"model"`
	APIKey      *string `json:"api_key"`
}

// ToInput 应用缺省值：length=100，model=gpt2
func (r *GenerateRequest) ToInput() content.GenerateInput {
	in := content.GenerateInput{
		Length: content.DefaultLength,
		Model:  content.DefaultModel,
	}
	if r.Prompt != nil {
		in.Prompt = *r.Prompt
	}
	if r.ContentType != nil {
		in.ContentType = *r.ContentType
	}
	if r.Length != nil {
		in.Length = *r.Length
	}
	if r.Model != nil {
		in.Model = *r.Model
	}
	if r.APIKey != nil {
		in.APIKey = *r.APIKey
	}
	return in
}

// ModelsResponse 模型列表
type ModelsResponse struct {
	Models      map[string]catalog.ModelConfig `json:"models"`
	TotalModels int                            `json:"total_models"`
	FreeModels  []string                       `json:"free_models"`
}
