package openrouter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/doeshing/vibe-go/internal/domain"
)

// APIError is a non-2xx response from OpenRouter. Body holds the raw
// response text; Message is the decoded error message when present.
type APIError struct {
	Status  int
	Code    string
	Message string
	Body    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Is lets errors.Is(err, domain.ErrRateLimited) match 429 responses.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrRateLimited && e.Status == http.StatusTooManyRequests
}

// RateLimited reports whether the response was a 429.
func (e *APIError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}
