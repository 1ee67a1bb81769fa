package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"wanderlust_travel/internal/adapters/assistant"
	"wanderlust_travel/internal/domain"
)

func request() domain.AssistantRequest {
	return domain.AssistantRequest{
		Model:     "test-model",
		MaxTokens: 1000,
		System:    "be nice",
		Messages:  []domain.ChatMessage{{Role: "user", Content: "hi"}},
	}
}

func TestClient_Ask_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" || r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			var body domain.AssistantRequest
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.MaxTokens != 1000 {
				t.Errorf("bad body: %+v (%v)", body, err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"content": []map[string]string{{"type": "text", "text": "Bonjour!"}},
			})
		}
	}))
	defer ts.Close()

	cl, err := assistant.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got := cl.Ask(ctx, request())
	if !got.OK() || got.Text != "Bonjour!" {
		t.Fatalf("unexpected reply: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_Ask_Malformed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer ts.Close()

	cl, _ := assistant.New(ts.URL, "k", 100)
	got := cl.Ask(context.Background(), request())
	if got.Status != domain.ReplyMalformed {
		t.Fatalf("expected malformed, got %s", got.Status)
	}
}

func TestClient_Ask_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	cl, _ := assistant.New(ts.URL, "k", 100)
	got := cl.Ask(context.Background(), request())
	if got.Status != domain.ReplyUnavailable || got.Err == nil {
		t.Fatalf("expected unavailable with error, got %+v", got)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := assistant.New("http://x", "", 1); err == nil {
		t.Fatal("expected error for empty key")
	}
}
