package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"content-gen-api/internal/config"
	"content-gen-api/internal/domain/generation"
)

type fakeChatModel struct {
	reply   string
	err     error
	lastIn  []*schema.Message
	lastOpt *model.Options
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.lastIn = input
	f.lastOpt = model.GetCommonOptions(nil, opts...)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func newTestFactory(id string, m model.BaseChatModel) *EinoFactory {
	f := NewEinoFactory(&config.Config{LLM: config.LLMConfig{
		Backends: map[string]config.BackendConfig{
			id: {Provider: "openai", BaseURL: "http://localhost:1", Model: "gpt-4o-mini"},
		},
	}})
	f.Register(id, m)
	return f
}

func TestChatBackendGenerate(t *testing.T) {
	fake := &fakeChatModel{reply: "a poem about the sea"}
	b := &ChatBackend{BackendID: "gpt4", Model: "gpt-4o-mini", Source: newTestFactory("gpt4", fake)}

	got, err := b.Generate(context.Background(), "Write about the sea", generation.FixedSampling(200))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "a poem about the sea" {
		t.Errorf("got %q", got)
	}

	if len(fake.lastIn) != 1 || fake.lastIn[0].Role != schema.User || fake.lastIn[0].Content != "Write about the sea" {
		t.Errorf("unexpected messages: %+v", fake.lastIn)
	}
	opts := fake.lastOpt
	if opts.MaxTokens == nil || *opts.MaxTokens != 200 {
		t.Errorf("max tokens: got %v", opts.MaxTokens)
	}
	if opts.Temperature == nil || *opts.Temperature != float32(generation.DefaultTemperature) {
		t.Errorf("temperature: got %v", opts.Temperature)
	}
	if opts.TopP == nil || *opts.TopP != float32(generation.DefaultTopP) {
		t.Errorf("top_p: got %v", opts.TopP)
	}
}

func TestChatBackendDefaultsOmitSampling(t *testing.T) {
	fake := &fakeChatModel{reply: "ok"}
	b := &ChatBackend{BackendID: "gpt4", Model: "gpt-4o-mini", Source: newTestFactory("gpt4", fake)}

	if _, err := b.Generate(context.Background(), "x", generation.BackendDefaults(50)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if fake.lastOpt.Temperature != nil || fake.lastOpt.TopP != nil {
		t.Errorf("sampling options should be unset, got temperature=%v top_p=%v",
			fake.lastOpt.Temperature, fake.lastOpt.TopP)
	}
}

func TestChatBackendError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("rate limited")}
	b := &ChatBackend{BackendID: "gpt4", Model: "gpt-4o-mini", Source: newTestFactory("gpt4", fake)}

	if _, err := b.Generate(context.Background(), "x", generation.FixedSampling(10)); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestChatBackendRejectsNonPositiveLength(t *testing.T) {
	fake := &fakeChatModel{reply: "ok"}
	b := &ChatBackend{BackendID: "gpt4", Model: "gpt-4o-mini", Source: newTestFactory("gpt4", fake)}

	_, err := b.Generate(context.Background(), "x", generation.FixedSampling(0))
	if err == nil || !strings.Contains(err.Error(), "max_length must be positive") {
		t.Errorf("got %v", err)
	}
	if fake.lastIn != nil {
		t.Error("chat model should not be called for non-positive length")
	}
}

func TestChatBackendAvailable(t *testing.T) {
	fake := &fakeChatModel{}
	b := &ChatBackend{BackendID: "gpt4", Model: "gpt-4o-mini", Source: newTestFactory("gpt4", fake)}
	if !b.Available(context.Background()) {
		t.Error("expected available with registered model")
	}

	missing := &ChatBackend{BackendID: "unknown", Source: newTestFactory("gpt4", fake)}
	if missing.Available(context.Background()) {
		t.Error("expected unavailable for unconfigured backend")
	}
}

func TestEinoFactoryRejectsOtherProviders(t *testing.T) {
	f := NewEinoFactory(&config.Config{LLM: config.LLMConfig{
		Backends: map[string]config.BackendConfig{
			"gpt2": {Provider: "tgi", BaseURL: "http://localhost:8080"},
		},
	}})
	if _, err := f.Get(context.Background(), "gpt2"); err == nil {
		t.Error("expected error for non-openai provider")
	}
}
