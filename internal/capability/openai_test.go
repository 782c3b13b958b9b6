package capability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) Capability {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	handle, err := NewOpenAI(Params{
		"api_key":    "test-key",
		"base_url":   server.URL,
		"model_path": "test-model",
	})
	if err != nil {
		t.Fatalf("NewOpenAI failed: %v", err)
	}
	return handle
}

func TestOpenAIGenerate(t *testing.T) {
	handle := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "the prompt" {
			t.Errorf("messages = %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "the answer"}},
			},
		})
	})

	got, err := handle.Generate(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != "the answer" {
		t.Errorf("Generate = %q", got)
	}
}

func TestOpenAIGenerateAPIError(t *testing.T) {
	handle := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited", "type": "rate_limit_error"},
		})
	})

	_, err := handle.Generate(context.Background(), "p")
	if err == nil {
		t.Fatal("expected API error")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry the API message: %v", err)
	}
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	handle := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	if _, err := handle.Generate(context.Background(), "p"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAI(Params{"model_path": "m"}); err == nil {
		t.Fatal("expected error without an API key")
	}
}
