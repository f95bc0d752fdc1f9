// Package completion runs chat completions against OpenRouter, rotating
// through candidate models when one is rate limited or fails.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/vibe-go/internal/application/routing"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/ports"
)

const (
	msgEnterAPIKey = "Enter your OpenRouter API key: "
	msgSaveAPIKey  = "Save API key to config for future use?"
)

// Service orchestrates a completion end-to-end: key resolution, candidate
// ordering and strictly sequential attempts.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Transport      ports.ChatTransport
	Prompter       ports.Prompter
	Sleeper        ports.Sleeper
	HistoryStore   ports.HistoryRepository
	Logger         ports.Logger
	Session        *Session
	Now            func() time.Time
}

// ChatCompletion tries each candidate model in order and returns the first
// successful reply. A 429 pauses for the configured backoff before the next
// candidate; any other failure moves on immediately.
func (s *Service) ChatCompletion(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	if s.ConfigProvider == nil || s.Transport == nil || s.Logger == nil {
		return domain.CompletionResult{}, errors.New("completion.Service dependencies not satisfied")
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("load config: %w", err)
	}

	apiKey, err := s.resolveAPIKey(cfg, req.APIKey)
	if err != nil {
		return domain.CompletionResult{}, err
	}

	candidates := routing.NewRouter(cfg).Candidates(req)
	started := s.now()
	s.Logger.Debug("routing completion", map[string]interface{}{
		"task":       req.TaskType,
		"candidates": strings.Join(candidates, ","),
	})

	wire := ports.ChatRequest{
		APIKey:      apiKey,
		Messages:    req.Messages,
		Temperature: domain.DefaultTemperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Temperature != nil {
		wire.Temperature = *req.Temperature
	}
	if req.Thinking != nil {
		wire.ReasoningEffort = "low"
		if *req.Thinking {
			wire.ReasoningEffort = "medium"
		}
	}

	var (
		attempts []domain.Attempt
		lastErr  error
	)
	for i, model := range candidates {
		if err := ctx.Err(); err != nil {
			return domain.CompletionResult{Attempts: attempts}, err
		}

		wire.Model = model
		resp, err := s.Transport.Send(ctx, wire)
		if err == nil {
			attempts = append(attempts, domain.Attempt{Model: model})
			result := domain.CompletionResult{Model: model, Message: resp.Message, Attempts: attempts}
			s.record(req, result.Model, attempts, started, nil)
			return result, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.CompletionResult{Attempts: attempts}, ctxErr
		}

		rateLimited := errors.Is(err, domain.ErrRateLimited)
		attempts = append(attempts, domain.Attempt{Model: model, RateLimited: rateLimited, Err: err})
		lastErr = err

		if !rateLimited {
			s.Logger.Warn("model failed, trying next", map[string]interface{}{"model": model, "error": err.Error()})
			continue
		}

		backoff := cfg.RateLimitBackoff()
		s.Logger.Warn("rate limited, rotating model", map[string]interface{}{"model": model, "backoff": backoff.String()})
		if i == len(candidates)-1 {
			break
		}
		if err := s.sleeper().Sleep(ctx, backoff); err != nil {
			return domain.CompletionResult{Attempts: attempts}, err
		}
	}

	failure := &FailedError{Attempts: attempts, Last: lastErr}
	s.record(req, "", attempts, started, failure)
	return domain.CompletionResult{Attempts: attempts}, failure
}

// ListFreeModels returns the configured default model and the free-model list.
func (s *Service) ListFreeModels(ctx context.Context) (string, []domain.FreeModel, error) {
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("load config: %w", err)
	}
	return cfg.DefaultModelID(), cfg.FreeModels(), nil
}

// SetDefaultModel validates id against the free-model list and persists it.
func (s *Service) SetDefaultModel(ctx context.Context, id string) error {
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.SetDefaultModel(id); err != nil {
		return err
	}
	return s.ConfigProvider.Save(cfg)
}

// KeyStatus reports where an API key is available from.
func (s *Service) KeyStatus(ctx context.Context) (domain.KeyStatus, error) {
	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.KeyStatus{}, fmt.Errorf("load config: %w", err)
	}
	return s.session().Status(cfg), nil
}

// resolveAPIKey follows request, session cache, environment, config file and
// finally a one-time interactive prompt.
func (s *Service) resolveAPIKey(cfg domain.Config, explicit string) (string, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}

	session := s.session()
	if session.key != "" {
		return session.key, nil
	}
	if session.envKey != "" {
		return session.cache(session.envKey, KeySourceEnv), nil
	}
	if key := cfg.StoredAPIKey(); key != "" {
		return session.cache(key, KeySourceConfig), nil
	}

	if !session.Interactive || session.prompted || s.Prompter == nil || !s.Prompter.Enabled() {
		return "", domain.ErrMissingAPIKey
	}
	session.prompted = true

	key, err := s.Prompter.Secret(msgEnterAPIKey)
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", domain.ErrMissingAPIKey
	}
	session.cache(key, KeySourcePrompt)

	save, err := s.Prompter.Confirm(msgSaveAPIKey, false)
	if err != nil {
		s.Logger.Warn("could not read answer, key not saved", map[string]interface{}{"error": err.Error()})
		return key, nil
	}
	if save {
		cfg.SetAPIKey(key)
		if err := s.ConfigProvider.Save(cfg); err != nil {
			s.Logger.Warn("failed to save API key", map[string]interface{}{"error": err.Error()})
		}
	}
	return key, nil
}

func (s *Service) record(req domain.CompletionRequest, model string, attempts []domain.Attempt, started time.Time, failure error) {
	if s.HistoryStore == nil || req.Kind == domain.HistoryEdit {
		return
	}
	kind := req.Kind
	if kind == "" {
		kind = domain.HistoryChat
	}
	task := req.TaskType
	if task == "" && req.Prompt != "" {
		task = routing.DetectTaskType(req.Prompt, "")
	}
	rec := domain.HistoryRecord{
		ID:         uuid.NewString(),
		Timestamp:  started,
		Kind:       kind,
		Prompt:     promptText(req),
		Model:      model,
		TaskType:   task,
		Attempts:   len(attempts),
		Success:    failure == nil,
		DurationMS: s.now().Sub(started).Milliseconds(),
	}
	if failure != nil {
		rec.Error = failure.Error()
	}
	if err := s.HistoryStore.Save(rec); err != nil {
		s.Logger.Warn("failed to record history", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) session() *Session {
	if s.Session == nil {
		s.Session = NewSession(false, "")
	}
	return s.Session
}

func (s *Service) sleeper() ports.Sleeper {
	if s.Sleeper == nil {
		return ContextSleeper{}
	}
	return s.Sleeper
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func promptText(req domain.CompletionRequest) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == domain.RoleUser {
			return req.Messages[i].Text()
		}
	}
	return ""
}

// ContextSleeper sleeps on a timer and wakes early when ctx is done.
type ContextSleeper struct{}

// Sleep implements ports.Sleeper.
func (ContextSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ ports.Completer = (*Service)(nil)
