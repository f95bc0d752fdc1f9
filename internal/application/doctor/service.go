// Package doctor runs environment diagnostics for `vibe doctor`.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	configapp "github.com/doeshing/vibe-go/internal/application/config"
	"github.com/doeshing/vibe-go/internal/domain"
	"github.com/doeshing/vibe-go/internal/ports"
)

// ConfigFile exposes the stored config without defaults applied.
type ConfigFile interface {
	Path() string
	Raw() (domain.Config, error)
}

// KeyReporter reports where the API key would come from.
type KeyReporter interface {
	KeyStatus(ctx context.Context) (domain.KeyStatus, error)
}

// RuleSource describes the loaded path guard rules.
type RuleSource interface {
	ports.PathGuard
	Source() string
	RuleCount() int
}

// GitStatus is the subset of repository state the doctor reports.
type GitStatus struct {
	Branch         string
	ModifiedCount  int
	UntrackedCount int
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	ConfigFile     ConfigFile
	Keys           KeyReporter
	Guard          RuleSource
	HistoryStore   ports.HistoryRepository
	// Git returns nil outside a repository.
	Git func(ctx context.Context) *GitStatus
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	if s.ConfigProvider == nil {
		return domain.HealthReport{}, errors.New("doctor.Service dependencies not satisfied")
	}
	var checks []domain.HealthCheck

	checks = append(checks, s.configFileCheck())

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config", err.Error()))
	} else {
		checks = append(checks, ok("Config", "valid"))
	}

	checks = append(checks, s.keyCheck(ctx))
	checks = append(checks, modelCheck(cfg))
	checks = append(checks, s.guardCheck())
	checks = append(checks, s.historyCheck())
	if check, present := s.gitCheck(ctx); present {
		checks = append(checks, check)
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) configFileCheck() domain.HealthCheck {
	if s.ConfigFile == nil {
		return warn("Config file", "loader not initialized")
	}
	path := s.ConfigFile.Path()
	if _, err := s.ConfigFile.Raw(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return warn("Config file", fmt.Sprintf("%s not found, using defaults", path))
		}
		return fail("Config file", fmt.Sprintf("%s unreadable, using defaults: %v", path, err))
	}
	return ok("Config file", path)
}

func (s *Service) keyCheck(ctx context.Context) domain.HealthCheck {
	if s.Keys == nil {
		return warn("API key", "key status unavailable")
	}
	status, err := s.Keys.KeyStatus(ctx)
	if err != nil {
		return fail("API key", err.Error())
	}
	switch {
	case status.FromEnv:
		return ok("API key", "from environment")
	case status.FromConfig:
		return ok("API key", "from config file")
	case status.WasPrompted && status.HasKey:
		return ok("API key", "entered this session")
	default:
		return fail("API key", domain.ErrMissingAPIKey.Error())
	}
}

func modelCheck(cfg domain.Config) domain.HealthCheck {
	model := cfg.DefaultModelID()
	if !cfg.HasFreeModel(model) {
		return warn("Default model", fmt.Sprintf("%s is not in the free-model list", model))
	}
	return ok("Default model", fmt.Sprintf("%s (%d free models)", model, len(cfg.FreeModels())))
}

func (s *Service) guardCheck() domain.HealthCheck {
	if s.Guard == nil {
		return warn("Path guard", "not initialized, edits are unrestricted")
	}
	assessment, err := s.Guard.Evaluate("../outside")
	if err != nil {
		return fail("Path guard", err.Error())
	}
	details := fmt.Sprintf("%d rules from %s", s.Guard.RuleCount(), s.Guard.Source())
	if !assessment.Blocked() {
		return warn("Path guard", details+", path traversal is not blocked")
	}
	return ok("Path guard", details)
}

func (s *Service) historyCheck() domain.HealthCheck {
	if s.HistoryStore == nil {
		return warn("History", "store not initialized")
	}
	if _, err := s.HistoryStore.Records(1, ""); err != nil {
		return warn("History", fmt.Sprintf("%s: %v", s.HistoryStore.Path(), err))
	}
	return ok("History", s.HistoryStore.Path())
}

func (s *Service) gitCheck(ctx context.Context) (domain.HealthCheck, bool) {
	if s.Git == nil {
		return domain.HealthCheck{}, false
	}
	status := s.Git(ctx)
	if status == nil {
		return warn("Workspace", "not a git repository, rely on .vibe-backup files"), true
	}
	if status.ModifiedCount > 0 || status.UntrackedCount > 0 {
		return warn("Workspace", fmt.Sprintf("branch %s has %d modified and %d untracked files", status.Branch, status.ModifiedCount, status.UntrackedCount)), true
	}
	return ok("Workspace", fmt.Sprintf("branch %s is clean", status.Branch)), true
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
