package domain

import "errors"

var (
	// ErrMissingAPIKey is returned when no OpenRouter key can be resolved.
	ErrMissingAPIKey = errors.New("API key is required. Set OPENROUTER_API_KEY env variable or configure it via CLI")
	// ErrUnknownModel is returned when a model id is not in the free-model list.
	ErrUnknownModel = errors.New("model not found in free model list")
	// ErrInvalidTheme is returned for theme names other than dark or light.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidEditOptions is returned when edit options fail validation.
	ErrInvalidEditOptions = errors.New("invalid edit options")
)

// ErrRateLimited is reported by transports for HTTP 429 responses.
var ErrRateLimited = errors.New("rate limited")
