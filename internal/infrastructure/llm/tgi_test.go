package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"content-gen-api/internal/domain/generation"
)

// newTGIServer 模拟 TGI；promptTokens < 0 时不提供 /tokenize
func newTGIServer(t *testing.T, promptTokens int, generate http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	if promptTokens >= 0 {
		mux.HandleFunc("/tokenize", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("tokenize: expected POST, got %s", r.Method)
			}
			var req tgiTokenizeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Inputs == "" {
				t.Errorf("tokenize: bad request %+v (%v)", req, err)
			}
			tokens := make([]tgiToken, promptTokens)
			for i := range tokens {
				tokens[i] = tgiToken{ID: i, Text: "t"}
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(tokens)
		})
	}
	mux.HandleFunc("/generate", generate)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// captureMaxNewTokens 记录 /generate 收到的 max_new_tokens
func captureMaxNewTokens(t *testing.T, got *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tgiGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		*got = req.Parameters.MaxNewTokens
		json.NewEncoder(w).Encode(tgiGenerateResponse{GeneratedText: req.Inputs})
	}
}

func TestTGIBackendGenerate(t *testing.T) {
	srv := newTGIServer(t, 9, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req tgiGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Inputs != "Compone un poema inspirador sobre: the sea" {
			t.Errorf("inputs: got %q", req.Inputs)
		}
		p := req.Parameters
		// 总长度 1000 减去 9 个提示词 token
		if p.MaxNewTokens != 991 {
			t.Errorf("max_new_tokens: got %d, want 991", p.MaxNewTokens)
		}
		if p.Temperature == nil || *p.Temperature != 0.8 {
			t.Errorf("temperature: got %v", p.Temperature)
		}
		if p.TopP == nil || *p.TopP != 0.9 {
			t.Errorf("top_p: got %v", p.TopP)
		}
		if p.RepetitionPenalty == nil || *p.RepetitionPenalty != 1.2 {
			t.Errorf("repetition_penalty: got %v", p.RepetitionPenalty)
		}
		if !p.DoSample || !p.ReturnFullText {
			t.Errorf("do_sample/return_full_text: got %v/%v", p.DoSample, p.ReturnFullText)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tgiGenerateResponse{GeneratedText: req.Inputs + " waves"})
	})

	b := NewTGIBackend(srv.URL+"/", "gpt2", 5*time.Second)

	got, err := b.Generate(context.Background(), "Compone un poema inspirador sobre: the sea", generation.FixedSampling(1000))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Compone un poema inspirador sobre: the sea waves" {
		t.Errorf("got %q", got)
	}
}

func TestTGIBackendMaxNewTokens(t *testing.T) {
	tests := []struct {
		name         string
		promptTokens int
		length       int
		want         int
	}{
		{"prompt subtracted from total", 12, 100, 88},
		{"prompt fills total", 100, 100, 1},
		{"prompt exceeds total", 150, 100, 1},
		{"no tokenize endpoint", -1, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int
			srv := newTGIServer(t, tt.promptTokens, captureMaxNewTokens(t, &got))

			b := NewTGIBackend(srv.URL, "gpt2", 5*time.Second)
			if _, err := b.Generate(context.Background(), "a prompt", generation.FixedSampling(tt.length)); err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if got != tt.want {
				t.Errorf("max_new_tokens: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTGIBackendRejectsNonPositiveLength(t *testing.T) {
	var called bool
	srv := newTGIServer(t, 3, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	b := NewTGIBackend(srv.URL, "gpt2", 5*time.Second)
	for _, length := range []int{0, -5} {
		_, err := b.Generate(context.Background(), "x", generation.FixedSampling(length))
		if err == nil || !strings.Contains(err.Error(), "max_length must be positive") {
			t.Errorf("length %d: got %v", length, err)
		}
	}
	if called {
		t.Error("generate should not be called for non-positive length")
	}
}

func TestTGIBackendTokenizeFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tokenize", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(tgiErrorResponse{Error: "model is overloaded", ErrorType: "overloaded"})
	})
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		t.Error("generate should not be called when tokenize fails")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b := NewTGIBackend(srv.URL, "gpt2", 5*time.Second)
	_, err := b.Generate(context.Background(), "x", generation.FixedSampling(10))
	if err == nil || !strings.Contains(err.Error(), "tokenize: model is overloaded") {
		t.Errorf("got %v", err)
	}
}

func TestTGIBackendOmitsUnsetSampling(t *testing.T) {
	srv := newTGIServer(t, 1, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		params := raw["parameters"]
		for _, key := range []string{"temperature", "top_p", "repetition_penalty"} {
			if _, ok := params[key]; ok {
				t.Errorf("%s should be omitted", key)
			}
		}
		if params["do_sample"] != false {
			t.Errorf("do_sample: got %v, want false", params["do_sample"])
		}
		json.NewEncoder(w).Encode(tgiGenerateResponse{GeneratedText: "x"})
	})

	b := NewTGIBackend(srv.URL, "gpt2", 5*time.Second)
	if _, err := b.Generate(context.Background(), "x", generation.BackendDefaults(50)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestTGIBackendErrorBody(t *testing.T) {
	srv := newTGIServer(t, 1, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(tgiErrorResponse{Error: "`top_p` must be > 0.0 and < 1.0", ErrorType: "validation"})
	})

	b := NewTGIBackend(srv.URL, "gpt2", 5*time.Second)
	_, err := b.Generate(context.Background(), "x", generation.FixedSampling(10))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "top_p") {
		t.Errorf("error should carry backend message, got %v", err)
	}
}

func TestTGIBackendServerError(t *testing.T) {
	srv := newTGIServer(t, 1, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	b := NewTGIBackend(srv.URL, "gpt2", 5*time.Second)
	_, err := b.Generate(context.Background(), "x", generation.FixedSampling(10))
	if err == nil || !strings.Contains(err.Error(), "unexpected status 500") {
		t.Errorf("expected status error on 500 response, got %v", err)
	}
}

func TestTGIBackendRejectsMultipleSequences(t *testing.T) {
	b := NewTGIBackend("http://localhost:1", "gpt2", time.Second)
	params := generation.FixedSampling(10)
	params.NumReturnSequences = 3
	if _, err := b.Generate(context.Background(), "x", params); err == nil {
		t.Error("expected error for num_return_sequences > 1")
	}
}

func TestTGIBackendAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected /health, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewTGIBackend(srv.URL, "gpt2", time.Second)
	if !b.Available(context.Background()) {
		t.Error("expected available when server is up")
	}
}

func TestTGIBackendNotAvailable(t *testing.T) {
	b := NewTGIBackend("http://localhost:99999", "gpt2", time.Second)
	if b.Available(context.Background()) {
		t.Error("expected not available when server is unreachable")
	}
}

func TestTGIBackendName(t *testing.T) {
	b := NewTGIBackend("http://localhost", "bigscience/bloom-560m", time.Second)
	if b.Name() != "TGI (bigscience/bloom-560m)" {
		t.Errorf("got %q", b.Name())
	}
}
