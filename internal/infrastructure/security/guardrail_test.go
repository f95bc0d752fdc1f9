package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/vibe-go/internal/domain"
)

func TestPathGuardDefaults(t *testing.T) {
	guard, err := NewPathGuard("")
	if err != nil {
		t.Fatalf("NewPathGuard error: %v", err)
	}
	if guard.Source() != "builtin" || guard.RuleCount() == 0 {
		t.Fatalf("expected builtin rules, got %s/%d", guard.Source(), guard.RuleCount())
	}

	tests := []struct {
		path   string
		action domain.GuardrailAction
	}{
		{path: "src/app.js", action: domain.ActionAllow},
		{path: "README.md", action: domain.ActionAllow},
		{path: "config/.envrc.d/x", action: domain.ActionAllow},
		{path: "/etc/passwd", action: domain.ActionBlock},
		{path: "../outside.go", action: domain.ActionBlock},
		{path: "src/../../outside.go", action: domain.ActionBlock},
		{path: ".git/config", action: domain.ActionBlock},
		{path: "sub/.git/HEAD", action: domain.ActionBlock},
		{path: ".env", action: domain.ActionConfirm},
		{path: "api/.env.local", action: domain.ActionConfirm},
		{path: "web/package-lock.json", action: domain.ActionConfirm},
		{path: "go.sum", action: domain.ActionConfirm},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result, err := guard.Evaluate(tt.path)
			if err != nil {
				t.Fatalf("Evaluate error: %v", err)
			}
			if result.Action != tt.action {
				t.Fatalf("expected %s for %s, got %+v", tt.action, tt.path, result)
			}
			if tt.action != domain.ActionAllow && len(result.Reasons) == 0 {
				t.Fatalf("expected reasons for %s", tt.path)
			}
		})
	}
}

func TestPathGuardCustomRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathguard.yaml")
	rules := `rules:
  path_patterns:
    - pattern: '^migrations/'
      level: high
      message: Migrations are append-only
      action: block
`
	if err := os.WriteFile(path, []byte(rules), 0o600); err != nil {
		t.Fatal(err)
	}

	guard, err := NewPathGuard(path)
	if err != nil {
		t.Fatalf("NewPathGuard error: %v", err)
	}
	if guard.Source() != path {
		t.Fatalf("expected rules from %s, got %s", path, guard.Source())
	}

	result, _ := guard.Evaluate("migrations/001.sql")
	if !result.Blocked() || result.Level != domain.RiskHigh {
		t.Fatalf("expected high block, got %+v", result)
	}
	result, _ = guard.Evaluate(".env")
	if result.Action != domain.ActionAllow {
		t.Fatalf("custom rules replace the defaults, got %+v", result)
	}
}

func TestPathGuardRejectsBadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathguard.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  path_patterns:\n    - pattern: '(['\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPathGuard(path); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestPathGuardMissingFileUsesDefaults(t *testing.T) {
	guard, err := NewPathGuard(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewPathGuard error: %v", err)
	}
	if guard.Source() != "builtin" {
		t.Fatalf("expected builtin, got %s", guard.Source())
	}
}
