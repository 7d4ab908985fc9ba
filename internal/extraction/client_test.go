package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	in := Input{
		Subject: "説明会のご案内",
		Sender:  "recruit@example.co.jp",
		Body:    "6月1日 9時から説明会を開催します。",
	}
	now := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	prompt := BuildPrompt(in, now, "not_event")

	for _, want := range []string{
		"件名: 説明会のご案内",
		"送信者: recruit@example.co.jp",
		"6月1日 9時から説明会を開催します。",
		`"not_event"`,
		"2025-03-02",
		"JST",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_SnippetFallback(t *testing.T) {
	in := Input{
		Subject: "件名のみ",
		Snippet: "プレビューだけのメール",
	}

	prompt := BuildPrompt(in, time.Now(), "not_event")
	if !strings.Contains(prompt, "プレビューだけのメール") {
		t.Errorf("prompt should fall back to snippet when body is empty:\n%s", prompt)
	}
}

func TestClientExtract(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "  not_event\n"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(models.ExtractionConfig{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL,
	})

	got, err := client.Extract(context.Background(), Input{Subject: "hi", Body: "body"})
	if err != nil {
		t.Fatalf("Extract() returned error: %v", err)
	}
	if got != "not_event" {
		t.Errorf("Extract() = %q, want trimmed sentinel", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestClientExtract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(models.ExtractionConfig{APIKey: "k", BaseURL: server.URL})

	if _, err := client.Extract(context.Background(), Input{Body: "x"}); err == nil {
		t.Error("Extract() should fail on non-200 response")
	}
}
