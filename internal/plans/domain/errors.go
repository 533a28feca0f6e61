package domain

import "errors"

var (
	// ErrNotConfigured means no API key is set; no upstream call was made.
	ErrNotConfigured = errors.New("OpenAI API key not configured")

	// ErrAuth covers upstream 401/403 responses.
	ErrAuth = errors.New("OpenAI authentication failed")

	// ErrRateLimit covers upstream 429 responses.
	ErrRateLimit = errors.New("OpenAI rate limit reached")

	// ErrModel means the configured model is unknown to the upstream API.
	ErrModel = errors.New("OpenAI model not available")

	ErrEmptyCompletion = errors.New("OpenAI returned an empty completion")
)

// ErrorCode maps a generation error to the code the API surfaces.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "CONFIG_ERROR"
	case errors.Is(err, ErrAuth):
		return "AUTH_ERROR"
	case errors.Is(err, ErrRateLimit):
		return "RATE_LIMIT_ERROR"
	case errors.Is(err, ErrModel):
		return "MODEL_ERROR"
	default:
		return "GENERATION_ERROR"
	}
}
