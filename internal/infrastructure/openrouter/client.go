// Package openrouter implements ports.ChatTransport over the OpenRouter
// chat-completions HTTP API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/ports"
)

// Request defaults.
const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultReferer = "https://openrouter.ai"
	DefaultTitle   = "Vibe CLI"
)

// Client sends chat completions to OpenRouter. Only connection failures are
// retried by the HTTP layer; every HTTP status, 429 included, is returned to
// the caller so model rotation stays in the completion service.
type Client struct {
	baseURL    string
	referer    string
	title      string
	retries    int
	timeout    time.Duration
	httpClient *http.Client
	adapter    providerAdapter
}

type providerAdapter struct {
	buildRequest  func(ports.ChatRequest) ([]byte, error)
	parseResponse func([]byte) (domain.Message, error)
	setHeaders    func(*http.Request, ports.ChatRequest, *Client)
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another OpenRouter-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithRetries sets how often a request is resent after a connection failure.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithTimeout bounds a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the retrying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient builds a client with the OpenRouter defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		referer: DefaultReferer,
		title:   DefaultTitle,
		timeout: domain.DefaultHTTPClientTimeout,
		adapter: openRouterAdapter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newRetryingClient(c.retries, c.timeout)
	}
	return c
}

func newRetryingClient(retries int, timeout time.Duration) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retries
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 4 * time.Second
	retryClient.Logger = nil
	retryClient.CheckRetry = connectionErrorsOnly

	client := retryClient.StandardClient()
	client.Timeout = timeout
	return client
}

// connectionErrorsOnly retries transport failures and never HTTP statuses.
func connectionErrorsOnly(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Endpoint returns the chat-completions URL.
func (c *Client) Endpoint() string {
	return c.baseURL + "/chat/completions"
}

// Send implements ports.ChatTransport.
func (c *Client) Send(ctx context.Context, req ports.ChatRequest) (ports.ChatResponse, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return ports.ChatResponse{}, domain.ErrMissingAPIKey
	}

	requestBody, err := c.adapter.buildRequest(req)
	if err != nil {
		return ports.ChatResponse{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(requestBody))
	if err != nil {
		return ports.ChatResponse{}, err
	}
	c.adapter.setHeaders(httpReq, req, c)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ports.ChatResponse{}, fmt.Errorf("%s: %w", req.Model, err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp.Body)
	if err != nil {
		return ports.ChatResponse{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ports.ChatResponse{}, newAPIError(resp.StatusCode, body)
	}

	message, err := c.adapter.parseResponse(body)
	if err != nil {
		return ports.ChatResponse{}, fmt.Errorf("%s: decode response: %w", req.Model, err)
	}
	return ports.ChatResponse{Message: message, Raw: body}, nil
}

func openRouterAdapter() providerAdapter {
	return providerAdapter{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders:    setOpenRouterHeaders,
	}
}

func buildChatCompletionRequest(req ports.ChatRequest) ([]byte, error) {
	request := chatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.ReasoningEffort != "" {
		request.Reasoning = &reasoning{Effort: req.ReasoningEffort}
	}
	return json.Marshal(request)
}

func parseChatCompletionResponse(body []byte) (domain.Message, error) {
	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return domain.Message{}, err
	}
	if len(response.Choices) == 0 {
		return domain.Message{}, fmt.Errorf("response has no choices")
	}
	return response.Choices[0].Message, nil
}

func setOpenRouterHeaders(httpReq *http.Request, req ports.ChatRequest, c *Client) {
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(req.APIKey))
	httpReq.Header.Set("HTTP-Referer", c.referer)
	httpReq.Header.Set("X-Title", c.title)
}

func readResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, domain.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(data) > domain.MaxResponseBytes {
		return nil, fmt.Errorf("response exceeded %d bytes", domain.MaxResponseBytes)
	}
	return data, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: string(body)}
	var decoded apiErrorResponse
	if err := json.Unmarshal(body, &decoded); err == nil {
		apiErr.Message = decoded.Error.Message
		if decoded.Error.Code != nil {
			apiErr.Code = fmt.Sprint(decoded.Error.Code)
		}
	}
	return apiErr
}

var _ ports.ChatTransport = (*Client)(nil)
