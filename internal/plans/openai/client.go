// Package openai wraps the chat-completions API behind the operations the
// generator needs. It is a plain HTTP client: one request, one response,
// no automatic retry.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
	"github.com/devplan-ai/devplan-backend/internal/plans/validate"
)

const (
	// DefaultTimeout is the standard timeout for short completions.
	DefaultTimeout = 30 * time.Second

	// GenerateTimeout is for full plan generations which can run long.
	GenerateTimeout = 90 * time.Second

	generateMaxTokens = 2000
	testMaxTokens     = 10
)

// Client talks to an OpenAI-compatible completion endpoint.
type Client struct {
	baseURL      string
	apiKey       string
	organization string
	model        string

	defaultClient  *http.Client
	generateClient *http.Client // plan generations need the longer timeout
	limiter        *rate.Limiter
}

// NewClient creates a client. An empty apiKey is allowed; every call then
// fails with domain.ErrNotConfigured without touching the network.
func NewClient(baseURL, apiKey, organization, model string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	if !validate.SupportedModel(model) {
		log.Printf("[warn] operation=client_init message=model %q is not on the supported list", model)
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		organization: organization,
		model:        model,
		defaultClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		generateClient: &http.Client{
			Timeout: GenerateTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(4), 8),
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// ModelInfo describes the client configuration without calling the API.
func (c *Client) ModelInfo() domain.ModelInfo {
	status := "not_configured"
	if c.Configured() {
		status = "configured"
	}
	return domain.ModelInfo{
		Model:            c.model,
		APIKeyConfigured: c.Configured(),
		Organization:     c.organization,
		Status:           status,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens,omitempty"`
	Temperature      float64       `json:"temperature"`
	PresencePenalty  float64       `json:"presence_penalty,omitempty"`
	FrequencyPenalty float64       `json:"frequency_penalty,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage domain.Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// GeneratePlan runs one completion round trip for the given request and
// returns the raw plan text plus metadata.
func (c *Client) GeneratePlan(ctx context.Context, req *domain.PlanRequest) (*domain.GeneratedPlan, error) {
	logger := NewLogger(ctx)

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPlanPrompt(req)},
		},
		MaxTokens:        generateMaxTokens,
		Temperature:      0.7,
		PresencePenalty:  0.1,
		FrequencyPenalty: 0.1,
	}

	resp, err := c.complete(ctx, c.generateClient, body)
	if err != nil {
		logger.LogError("generate_plan", err)
		return nil, err
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		logger.LogWarn("generate_plan", "empty completion")
		return nil, domain.ErrEmptyCompletion
	}

	logger.LogInfof("generate_plan", "model=%s tokens=%d", c.model, resp.Usage.TotalTokens)
	return &domain.GeneratedPlan{
		Text:        resp.Choices[0].Message.Content,
		Model:       c.model,
		TokensUsed:  resp.Usage.TotalTokens,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// TestConnection sends a minimal completion to verify key, model and
// connectivity.
func (c *Client) TestConnection(ctx context.Context) (*domain.ConnectionTest, error) {
	logger := NewLogger(ctx)

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: "Connection test - reply with 'OK'"},
		},
		MaxTokens:   testMaxTokens,
		Temperature: 0,
	}

	resp, err := c.complete(ctx, c.defaultClient, body)
	if err != nil {
		logger.LogError("test_connection", err)
		return nil, err
	}

	answer := ""
	if len(resp.Choices) > 0 {
		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
	}

	return &domain.ConnectionTest{
		Status:   "success",
		Message:  "OpenAI connection succeeded",
		Model:    c.model,
		Response: answer,
		Usage:    resp.Usage,
	}, nil
}

func (c *Client) complete(ctx context.Context, hc *http.Client, body chatRequest) (*chatResponse, error) {
	if !c.Configured() {
		return nil, domain.ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	duration := time.Since(start)
	if err != nil {
		recordCompletionCall(duration, err)
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		recordCompletionCall(duration, err)
		return nil, err
	}
	recordCompletionCall(duration, nil)

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// classifyStatus maps upstream HTTP status codes onto the domain error set.
func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrAuth)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrRateLimit)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrModel)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}
