package routing

import (
	"testing"

	"github.com/doeshing/vibe-go/internal/domain"
)

func TestDetectTaskType(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		command string
		want    domain.TaskType
	}{
		{name: "command wins over keywords", prompt: "fix this bug", command: "review", want: domain.TaskCodeReview},
		{name: "command is case insensitive", command: "EDIT", want: domain.TaskMultiEdit},
		{name: "unknown command falls through", prompt: "write a parser", command: "dance", want: domain.TaskCodeGeneration},
		{name: "generation keyword", prompt: "Create a REST handler", want: domain.TaskCodeGeneration},
		{name: "debug keyword", prompt: "there is an error in main.go", want: domain.TaskDebug},
		{name: "generation beats debug", prompt: "write a fix", want: domain.TaskCodeGeneration},
		{name: "refactor keyword", prompt: "please optimize this loop", want: domain.TaskRefactor},
		{name: "test keyword", prompt: "add a unit test", want: domain.TaskTestGeneration},
		{name: "completion keyword", prompt: "finish the function", want: domain.TaskCompletion},
		{name: "edit keyword", prompt: "modify the config loader", want: domain.TaskMultiEdit},
		{name: "git keyword", prompt: "summarize this commit", want: domain.TaskGitAnalysis},
		{name: "review keyword", prompt: "critique my design", want: domain.TaskCodeReview},
		{name: "word boundaries", prompt: "the prefix is fixed-width", want: domain.TaskChat},
		{name: "empty input", want: domain.TaskChat},
		{name: "plain chat", prompt: "hello there", want: domain.TaskChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTaskType(tt.prompt, tt.command); got != tt.want {
				t.Errorf("DetectTaskType(%q, %q) = %s, want %s", tt.prompt, tt.command, got, tt.want)
			}
		})
	}
}

func TestRouteCoversPreferredAndDefault(t *testing.T) {
	configs := map[string]domain.Config{
		"built-in default": {},
		"custom default":   {OpenRouter: domain.OpenRouterSettings{DefaultModel: "deepseek/r1-0528:free"}},
	}

	for name, cfg := range configs {
		router := NewRouter(cfg)
		for task, preferred := range domain.TaskModelMapping() {
			got := router.Route(task, "")

			seen := map[string]bool{}
			for _, model := range got {
				if seen[model] {
					t.Fatalf("%s/%s: duplicate %s in %v", name, task, model, got)
				}
				seen[model] = true
			}
			for _, model := range preferred {
				if !seen[model] {
					t.Errorf("%s/%s: missing preferred %s in %v", name, task, model, got)
				}
			}
			if !seen[cfg.DefaultModelID()] {
				t.Errorf("%s/%s: missing default in %v", name, task, got)
			}
		}
	}
}

func TestRoutePromotesDefault(t *testing.T) {
	router := NewRouter(domain.Config{})

	got := router.Route(domain.TaskMultiEdit, "")
	want := []string{"z-ai/glm-4.5-air:free", "kwaipilot/kat-coder-pro-v1:free"}
	assertModels(t, got, want)

	got = router.Route(domain.TaskCodeGeneration, "")
	want = []string{"deepseek/deepseek-coder-v2-lite", "qwen/qwen2.5-coder-7b", "z-ai/glm-4.5-air:free"}
	assertModels(t, got, want)
}

func TestRouteExplicitModelAndUnknownTask(t *testing.T) {
	router := NewRouter(domain.Config{})

	got := router.Route(domain.TaskType("poetry"), "google/gemma-3-27b:free")
	want := []string{"z-ai/glm-4.5-air:free", "mistral/mistral-nemo-instruct", "google/gemma-3-27b:free"}
	assertModels(t, got, want)
}

func TestFallback(t *testing.T) {
	cfg := domain.Config{OpenRouter: domain.OpenRouterSettings{
		TopFreeModels: []domain.FreeModel{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}}
	router := NewRouter(cfg)

	assertModels(t, router.Fallback("b"), []string{"b", "a", "c"})
	assertModels(t, router.Fallback(""), []string{domain.DefaultModelID, "a", "b", "c"})
}

func TestCandidates(t *testing.T) {
	router := NewRouter(domain.Config{})

	byTask := router.Candidates(domain.CompletionRequest{TaskType: domain.TaskLongContext})
	assertModels(t, byTask, []string{"google/gemini-2.0-flash-exp:free", "z-ai/glm-4.5-air:free"})

	byPrompt := router.Candidates(domain.CompletionRequest{Prompt: "review this"})
	assertModels(t, byPrompt, router.Route(domain.TaskCodeReview, ""))

	fallback := router.Candidates(domain.CompletionRequest{})
	if len(fallback) != len(domain.DefaultFreeModels()) || fallback[0] != domain.DefaultModelID {
		t.Fatalf("unexpected fallback order %v", fallback)
	}
}

func assertModels(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
