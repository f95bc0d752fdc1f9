package openrouter

import "github.com/doeshing/vibe-go/internal/domain"

type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	Temperature float64          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Reasoning   *reasoning       `json:"reasoning,omitempty"`
}

type reasoning struct {
	Effort string `json:"effort"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message domain.Message `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Code    interface{} `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}
