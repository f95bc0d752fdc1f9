package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/vibe-go/internal/domain"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(string, map[string]interface{}) {}
func (l *recordingLogger) Info(string, map[string]interface{})  {}
func (l *recordingLogger) Warn(msg string, _ map[string]interface{}) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(string, error, map[string]interface{}) {}

func mustLoad(t *testing.T, loader *FileLoader) domain.Config {
	t.Helper()
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func assertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("%s exists (stat error %v), want no file", path, err)
	}
}

func TestLoadMissingFileReturnsDefaultsWithoutWriting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := mustLoad(t, NewFileLoader(path, &recordingLogger{}))

	if cfg.OpenRouter.DefaultModel != domain.DefaultModelID {
		t.Errorf("DefaultModel = %q, want %q", cfg.OpenRouter.DefaultModel, domain.DefaultModelID)
	}
	if got, want := len(cfg.OpenRouter.TopFreeModels), len(domain.DefaultFreeModels()); got != want {
		t.Errorf("got %d free models, want %d", got, want)
	}
	if cfg.Core.Theme != domain.ThemeDark {
		t.Errorf("Theme = %q, want dark", cfg.Core.Theme)
	}
	if cfg.Core.RateLimitBackoff != 5000 {
		t.Errorf("RateLimitBackoff = %d, want 5000", cfg.Core.RateLimitBackoff)
	}
	assertNoFile(t, path)
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	logger := &recordingLogger{}

	cfg := mustLoad(t, NewFileLoader(path, logger))

	if cfg.DefaultModelID() != domain.DefaultModelID {
		t.Errorf("DefaultModelID() = %q", cfg.DefaultModelID())
	}
	if cfg.OpenRouter.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.OpenRouter.APIKey)
	}
	if len(logger.warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", logger.warnings)
	}
}

func TestLoadNormalisesStringModels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"openrouter":{"apiKey":"sk","topFreeModels":["a/b:free",{"id":"c/d:free","ctx":1000}]},"core":{"rateLimitBackoff":10}}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := mustLoad(t, NewFileLoader(path, nil))

	if diff := cmp.Diff([]string{"a/b:free", "c/d:free"}, cfg.FreeModelIDs()); diff != "" {
		t.Errorf("FreeModelIDs() mismatch (-want +got):\n%s", diff)
	}
	if cfg.OpenRouter.TopFreeModels[1].Ctx != 1000 {
		t.Errorf("Ctx = %d, want 1000", cfg.OpenRouter.TopFreeModels[1].Ctx)
	}
	if cfg.StoredAPIKey() != "sk" {
		t.Errorf("StoredAPIKey() = %q, want sk", cfg.StoredAPIKey())
	}
	if cfg.Core.RateLimitBackoff != 10 {
		t.Errorf("RateLimitBackoff = %d, want 10", cfg.Core.RateLimitBackoff)
	}
}

func TestSaveWritesIndentedJSONAndBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir", "config.json")
	loader := NewFileLoader(path, nil)

	first := DefaultConfig()
	if err := loader.Save(first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	assertNoFile(t, path+BackupSuffix)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"openrouter\": {") {
		t.Errorf("config is not indented:\n%s", data)
	}

	second := first
	second.Core.Theme = domain.ThemeLight
	if err := loader.Save(second); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	backup, err := os.ReadFile(path + BackupSuffix)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var previous domain.Config
	if err := json.Unmarshal(backup, &previous); err != nil {
		t.Fatalf("backup is not JSON: %v", err)
	}
	if previous.Core.Theme != domain.ThemeDark {
		t.Errorf("backup theme = %q, want dark", previous.Core.Theme)
	}

	reloaded := mustLoad(t, loader)
	if got := reloaded.ThemeName(); got != domain.ThemeLight {
		t.Errorf("reloaded theme = %q, want light", got)
	}
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	loader := NewFileLoader(path, nil)
	if err := os.WriteFile(path, []byte(`{"core":{"theme":"light"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loader.Reset()
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if cfg.Core.Theme != domain.ThemeDark {
		t.Errorf("Reset() theme = %q, want dark", cfg.Core.Theme)
	}

	raw, err := loader.Raw()
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if raw.Core.Theme != domain.ThemeDark {
		t.Errorf("stored theme = %q, want dark", raw.Core.Theme)
	}
}

func TestPathDefaultsToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := NewFileLoader("", nil).Path(), filepath.Join(home, ".vibe", "config.json"); got != want {
		t.Errorf("default Path() = %q, want %q", got, want)
	}
	if got, want := NewFileLoader("~/alt.json", nil).Path(), filepath.Join(home, "alt.json"); got != want {
		t.Errorf("expanded Path() = %q, want %q", got, want)
	}
}

func TestParseEnv(t *testing.T) {
	e, err := parseEnv(map[string]string{
		"OPENROUTER_KEY":           " legacy ",
		"VIBE_CONFIG":              "/tmp/vibe.json",
		"VIBE_DEBUG":               "1",
		"VIBE_OPENROUTER_BASE_URL": "http://localhost:9999",
	})
	if err != nil {
		t.Fatalf("parseEnv() error = %v", err)
	}
	if e.OpenRouterKey() != "legacy" || e.ConfigPath != "/tmp/vibe.json" || !e.Debug || e.BaseURL != "http://localhost:9999" {
		t.Errorf("parseEnv() = %+v", e)
	}

	e, err = parseEnv(map[string]string{"OPENROUTER_API_KEY": "primary", "OPENROUTER_KEY": "legacy"})
	if err != nil {
		t.Fatalf("parseEnv() error = %v", err)
	}
	if e.OpenRouterKey() != "primary" {
		t.Errorf("OpenRouterKey() = %q, want primary", e.OpenRouterKey())
	}

	e, err = parseEnv(map[string]string{"VIBE_DEBUG": "maybe", "OPENROUTER_API_KEY": "kept"})
	if err == nil {
		t.Fatal("parseEnv() accepted VIBE_DEBUG=maybe")
	}
	if e.OpenRouterKey() != "kept" {
		t.Errorf("OpenRouterKey() = %q, want kept", e.OpenRouterKey())
	}
}
