package domain

import "time"

// PlanRequest carries everything the generator form submits. Field names
// follow the JSON contract of the web front end.
type PlanRequest struct {
	Description string `json:"project_description"`
	ProjectType string `json:"project_type,omitempty"` // ecommerce, saas, mobile, api, dashboard
	Scale       string `json:"scale,omitempty"`        // small, medium, large

	FrontendPreference string `json:"frontend_preference,omitempty"`
	BackendPreference  string `json:"backend_preference,omitempty"`
	DatabasePreference string `json:"database_preference,omitempty"`

	Features []string `json:"features,omitempty"`
	Timeline string   `json:"timeline,omitempty"`
	TeamSize int      `json:"team_size,omitempty"`
	Budget   string   `json:"budget,omitempty"`
}

// GeneratedPlan is the result of one completion round trip.
type GeneratedPlan struct {
	Text        string    `json:"plan"`
	Model       string    `json:"model"`
	TokensUsed  int       `json:"tokens_used"`
	Cached      bool      `json:"cached,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ModelInfo describes the configured completion backend.
type ModelInfo struct {
	Model            string `json:"model"`
	APIKeyConfigured bool   `json:"api_key_configured"`
	Organization     string `json:"organization,omitempty"`
	Status           string `json:"status"` // configured | not_configured
}

// ConnectionTest is the result of a minimal completion round trip.
type ConnectionTest struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Model    string `json:"model"`
	Response string `json:"response,omitempty"`
	Usage    Usage  `json:"usage"`
}

// Usage mirrors the completion API token accounting.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
