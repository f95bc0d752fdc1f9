package doctor

import (
	"context"
	"io/fs"
	"testing"

	"github.com/doeshing/vibe-go/internal/domain"
)

type stubProvider struct{ cfg domain.Config }

func (s stubProvider) Load(context.Context) (domain.Config, error) { return s.cfg, nil }
func (s stubProvider) Save(domain.Config) error                    { return nil }

type stubFile struct{ err error }

func (s stubFile) Path() string                { return "/home/u/.vibe/config.json" }
func (s stubFile) Raw() (domain.Config, error) { return domain.Config{}, s.err }

type stubKeys struct{ status domain.KeyStatus }

func (s stubKeys) KeyStatus(context.Context) (domain.KeyStatus, error) { return s.status, nil }

type stubGuard struct{ blocks bool }

func (g stubGuard) Evaluate(path string) (domain.RiskAssessment, error) {
	action := domain.ActionAllow
	if g.blocks {
		action = domain.ActionBlock
	}
	return domain.RiskAssessment{Path: path, Action: action}, nil
}
func (stubGuard) Source() string { return "builtin" }
func (stubGuard) RuleCount() int { return 7 }

func statusOf(report domain.HealthReport, name string) domain.HealthStatus {
	for _, check := range report.Checks {
		if check.Name == name {
			return check.Status
		}
	}
	return ""
}

func TestDoctorHealthy(t *testing.T) {
	svc := &Service{
		ConfigProvider: stubProvider{cfg: domain.Config{}.WithDefaults()},
		ConfigFile:     stubFile{},
		Keys:           stubKeys{status: domain.KeyStatus{HasKey: true, FromEnv: true}},
		Guard:          stubGuard{blocks: true},
		Git: func(context.Context) *GitStatus {
			return &GitStatus{Branch: "main"}
		},
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.HasErrors() {
		t.Fatalf("expected no errors, got %+v", report.Checks)
	}
	for _, name := range []string{"Config file", "Config", "API key", "Default model", "Path guard", "Workspace"} {
		if got := statusOf(report, name); got != domain.HealthOK {
			t.Fatalf("%s: expected ok, got %q", name, got)
		}
	}
	if got := statusOf(report, "History"); got != domain.HealthWarn {
		t.Fatalf("History: expected warn without store, got %q", got)
	}
}

func TestDoctorReportsProblems(t *testing.T) {
	cfg := domain.Config{}.WithDefaults()
	cfg.OpenRouter.DefaultModel = "paid/model"
	cfg.Core.Theme = "neon"

	svc := &Service{
		ConfigProvider: stubProvider{cfg: cfg},
		ConfigFile:     stubFile{err: fs.ErrNotExist},
		Keys:           stubKeys{},
		Guard:          stubGuard{},
		Git:            func(context.Context) *GitStatus { return &GitStatus{Branch: "dev", ModifiedCount: 2} },
	}

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !report.HasErrors() {
		t.Fatal("expected errors")
	}
	expect := map[string]domain.HealthStatus{
		"Config file":   domain.HealthWarn,
		"Config":        domain.HealthError,
		"API key":       domain.HealthError,
		"Default model": domain.HealthWarn,
		"Path guard":    domain.HealthWarn,
		"Workspace":     domain.HealthWarn,
	}
	for name, want := range expect {
		if got := statusOf(report, name); got != want {
			t.Fatalf("%s: expected %s, got %q", name, want, got)
		}
	}
}
