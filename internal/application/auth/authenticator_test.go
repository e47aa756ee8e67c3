package auth

import (
	"context"
	"testing"

	"content-gen-api/internal/domain/catalog"
	apperrors "content-gen-api/pkg/errors"
)

func TestStaticKeyAuthenticator(t *testing.T) {
	registry := catalog.NewDefaultRegistry()
	a := NewStaticKeyAuthenticator(map[string]string{
		"gpt2":  "demo_gpt2_key_123",
		"bloom": "demo_bloom_key_456",
	})

	tests := []struct {
		name     string
		model    string
		key      string
		wantCode apperrors.ErrorCode
	}{
		{"free model with its key", "gpt2", "demo_gpt2_key_123", ""},
		{"bloom with its key", "bloom", "demo_bloom_key_456", ""},
		{"free model without key", "gpt2", "", apperrors.CodeInvalidAPIKey},
		{"free model with other model's key", "gpt2", "demo_bloom_key_456", apperrors.CodeInvalidAPIKey},
		{"free model with key prefix", "gpt2", "demo_gpt2_key_12", apperrors.CodeInvalidAPIKey},
		{"free model with padded key", "gpt2", " demo_gpt2_key_123", apperrors.CodeInvalidAPIKey},
		{"gated model without key", "gpt4", "", apperrors.CodeMissingAPIKey},
		{"gated model with any key", "gpt4", "sk-anything", ""},
		{"gated model with free key", "claude", "demo_gpt2_key_123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := registry.Lookup(tt.model)
			if !ok {
				t.Fatalf("model %s not registered", tt.model)
			}
			err := a.Authenticate(context.Background(), m, tt.key)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("got %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestStaticKeyAuthenticatorUnconfiguredFreeModel(t *testing.T) {
	a := NewStaticKeyAuthenticator(nil)
	m := catalog.ModelConfig{ID: "local", MaxLength: 10}

	if err := a.Authenticate(context.Background(), m, ""); err != nil {
		t.Errorf("empty key against empty config: got %v, want nil", err)
	}
	if err := a.Authenticate(context.Background(), m, "something"); !apperrors.HasCode(err, apperrors.CodeInvalidAPIKey) {
		t.Errorf("non-empty key against empty config: got %v", err)
	}
}

func TestNewStaticKeyAuthenticatorCopiesKeys(t *testing.T) {
	keys := map[string]string{"gpt2": "k1"}
	a := NewStaticKeyAuthenticator(keys)
	keys["gpt2"] = "k2"

	m, _ := catalog.NewDefaultRegistry().Lookup("gpt2")
	if err := a.Authenticate(context.Background(), m, "k1"); err != nil {
		t.Errorf("original key should still authenticate: %v", err)
	}
	if err := a.Authenticate(context.Background(), m, "k2"); !apperrors.HasCode(err, apperrors.CodeInvalidAPIKey) {
		t.Errorf("mutated caller map should not leak in: got %v", err)
	}
}
