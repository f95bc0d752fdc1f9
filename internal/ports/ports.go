// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The completion and edit services depend only on
// these interfaces, so the OpenRouter client, the filesystem, the terminal and
// the history database can each be replaced by a stub in tests.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., ChatTransport, ConfigProvider)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/doeshing/vibe-go/internal/domain"
)

// ConfigProvider loads and persists configuration.
// Implementations typically read from ~/.vibe/config.json.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
	Save(domain.Config) error
}

// ChatTransport sends one chat completion request to one model.
// A 429 response must be reported as an error matching domain.ErrRateLimited.
type ChatTransport interface {
	Send(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// ChatRequest is a single wire request for one candidate model.
type ChatRequest struct {
	APIKey          string
	Model           string
	Messages        []domain.Message
	Temperature     float64
	MaxTokens       int
	ReasoningEffort string
}

// ChatResponse carries the first choice of a completion.
type ChatResponse struct {
	Message domain.Message
	Raw     []byte
}

// Completer runs a chat completion with model rotation.
type Completer interface {
	ChatCompletion(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
}

// Prompter handles interactive questions: yes/no confirmations and masked input.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
	Secret(prompt string) (string, error)
	Enabled() bool
}

// FileScanner enumerates files matching a glob and reads them into memory.
type FileScanner interface {
	Scan(ctx context.Context, pattern string, opts domain.ScanOptions) (domain.ScanResult, error)
}

// Workspace reads and writes files targeted by an edit.
type Workspace interface {
	ReadFile(path string) (content string, exists bool, err error)
	WriteFile(path, content string) error
	Backup(path, content string) (string, error)
}

// PathGuard evaluates whether an edit may write to a path.
type PathGuard interface {
	Evaluate(path string) (domain.RiskAssessment, error)
}

// HistoryRepository persists completion and edit records.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	Path() string
}

// Clipboard provides cross-platform clipboard integration for copying replies.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// Sleeper pauses between rate-limited attempts.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
