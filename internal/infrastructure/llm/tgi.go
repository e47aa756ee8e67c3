package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"content-gen-api/internal/domain/generation"
)

// TGIBackend 调用 HuggingFace text-generation-inference 的 /generate 接口
// MaxLength 是提示词与续写的总 token 数，新 token 数按 /tokenize 的结果扣除提示词部分
type TGIBackend struct {
	BaseURL string
	Model   string
	Client  *http.Client
}

type tgiParameters struct {
	MaxNewTokens      int      `json:"max_new_tokens,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty"`
	DoSample          bool     `json:"do_sample"`
	ReturnFullText    bool     `json:"return_full_text"`
}

type tgiGenerateRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters tgiParameters `json:"parameters"`
}

type tgiGenerateResponse struct {
	GeneratedText string `json:"generated_text"`
}

type tgiTokenizeRequest struct {
	Inputs string `json:"inputs"`
}

type tgiToken struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type tgiErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// tgiStatusError 非 200 响应
type tgiStatusError struct {
	Status  int
	Message string
}

func (e *tgiStatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return e.Message
}

// NewTGIBackend 创建 TGI 后端
func NewTGIBackend(baseURL, model string, timeout time.Duration) *TGIBackend {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &TGIBackend{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Model:   model,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Name 后端显示名
func (b *TGIBackend) Name() string {
	return fmt.Sprintf("TGI (%s)", b.Model)
}

// Generate 返回包含提示词在内的完整文本
func (b *TGIBackend) Generate(ctx context.Context, prompt string, params generation.SamplingParams) (string, error) {
	if params.MaxLength <= 0 {
		return "", fmt.Errorf("tgi: max_length must be positive, got %d", params.MaxLength)
	}
	if params.NumReturnSequences > 1 {
		return "", fmt.Errorf("tgi: num_return_sequences=%d not supported", params.NumReturnSequences)
	}

	promptTokens, err := b.promptTokens(ctx, prompt)
	if err != nil {
		return "", err
	}

	reqBody := tgiGenerateRequest{
		Inputs: prompt,
		Parameters: tgiParameters{
			// 提示词已占满总长度时仍至少生成一个 token
			MaxNewTokens:      max(params.MaxLength-promptTokens, 1),
			Temperature:       optional(params.Temperature),
			TopP:              optional(params.TopP),
			RepetitionPenalty: optional(params.RepetitionPenalty),
			DoSample:          params.Temperature > 0 || params.TopP > 0,
			ReturnFullText:    true,
		},
	}

	var genResp tgiGenerateResponse
	if err := b.postJSON(ctx, "/generate", reqBody, &genResp); err != nil {
		return "", fmt.Errorf("tgi: %w", err)
	}
	return genResp.GeneratedText, nil
}

// promptTokens 提示词的 token 数；不提供 /tokenize 的旧版本服务按 0 处理
func (b *TGIBackend) promptTokens(ctx context.Context, prompt string) (int, error) {
	var tokens []tgiToken
	err := b.postJSON(ctx, "/tokenize", tgiTokenizeRequest{Inputs: prompt}, &tokens)
	if err != nil {
		var statusErr *tgiStatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("tgi: tokenize: %w", err)
	}
	return len(tokens), nil
}

func (b *TGIBackend) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp tgiErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &tgiStatusError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Available 探测 /health，超时 2 秒
func (b *TGIBackend) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func optional(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
