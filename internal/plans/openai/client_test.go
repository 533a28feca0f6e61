package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
)

const testKey = "sk-test-key-0000000000000000000000000000000000"

func planRequest() *domain.PlanRequest {
	return &domain.PlanRequest{
		Description: "An online store for handmade furniture",
		ProjectType: "ecommerce",
		Scale:       "medium",
	}
}

func completionBody(content string, totalTokens int) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
		"usage": map[string]int{"total_tokens": totalTokens},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestGeneratePlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testKey {
			t.Errorf("unexpected auth header: %s", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["model"] != "gpt-3.5-turbo" {
			t.Errorf("unexpected model: %v", body["model"])
		}
		msgs := body["messages"].([]interface{})
		if len(msgs) != 2 {
			t.Fatalf("expected system and user messages, got %d", len(msgs))
		}
		user := msgs[1].(map[string]interface{})["content"].(string)
		if !strings.Contains(user, "handmade furniture") {
			t.Errorf("prompt missing description: %s", user)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(completionBody("## Project Analysis\nLooks good.", 321)))
	}))
	defer server.Close()

	client := NewClient(server.URL, testKey, "", "")
	plan, err := client.GeneratePlan(context.Background(), planRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(plan.Text, "Project Analysis") {
		t.Errorf("unexpected plan text: %s", plan.Text)
	}
	if plan.TokensUsed != 321 {
		t.Errorf("expected 321 tokens, got %d", plan.TokensUsed)
	}
	if plan.Model != "gpt-3.5-turbo" {
		t.Errorf("unexpected model: %s", plan.Model)
	}
	if plan.Cached {
		t.Error("fresh plan must not be marked cached")
	}
}

func TestGeneratePlan_NotConfigured(t *testing.T) {
	client := NewClient("", "", "", "")

	_, err := client.GeneratePlan(context.Background(), planRequest())
	if !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestGeneratePlan_EmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("   ", 5)))
	}))
	defer server.Close()

	client := NewClient(server.URL, testKey, "", "")
	_, err := client.GeneratePlan(context.Background(), planRequest())
	if !errors.Is(err, domain.ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestGeneratePlan_StatusClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrAuth},
		{http.StatusForbidden, domain.ErrAuth},
		{http.StatusTooManyRequests, domain.ErrRateLimit},
		{http.StatusNotFound, domain.ErrModel},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))

		client := NewClient(server.URL, testKey, "", "")
		_, err := client.GeneratePlan(context.Background(), planRequest())
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
		}
		server.Close()
	}
}

func TestGeneratePlan_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("backend exploded"))
	}))
	defer server.Close()

	client := NewClient(server.URL, testKey, "", "")
	_, err := client.GeneratePlan(context.Background(), planRequest())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if domain.ErrorCode(err) != "GENERATION_ERROR" {
		t.Errorf("expected GENERATION_ERROR code, got %s", domain.ErrorCode(err))
	}
	if !strings.Contains(err.Error(), "backend exploded") {
		t.Errorf("expected body snippet in error, got %v", err)
	}
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if mt, _ := body["max_tokens"].(float64); mt != 10 {
			t.Errorf("expected max_tokens 10, got %v", body["max_tokens"])
		}
		w.Write([]byte(completionBody("OK", 12)))
	}))
	defer server.Close()

	client := NewClient(server.URL, testKey, "", "gpt-4")
	res, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != "success" || res.Response != "OK" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Model != "gpt-4" {
		t.Errorf("expected model gpt-4, got %s", res.Model)
	}
}

func TestModelInfo(t *testing.T) {
	configured := NewClient("", testKey, "org-123", "gpt-4")
	info := configured.ModelInfo()
	if !info.APIKeyConfigured || info.Status != "configured" || info.Organization != "org-123" {
		t.Errorf("unexpected info: %+v", info)
	}

	unconfigured := NewClient("", "", "", "")
	info = unconfigured.ModelInfo()
	if info.APIKeyConfigured || info.Status != "not_configured" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Model != "gpt-3.5-turbo" {
		t.Errorf("expected default model, got %s", info.Model)
	}
}

func TestMetricsRecording(t *testing.T) {
	ResetMetrics()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("fine", 1)))
	}))
	defer server.Close()

	client := NewClient(server.URL, testKey, "", "")
	if _, err := client.GeneratePlan(context.Background(), planRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := GetMetrics()
	if m.Calls() != 1 {
		t.Errorf("expected 1 call recorded, got %d", m.Calls())
	}
	if m.Errors() != 0 {
		t.Errorf("expected 0 errors, got %d", m.Errors())
	}
}
