// Package routing classifies prompts into task types and orders the
// candidate models for a completion.
package routing

import (
	"regexp"
	"strings"

	"github.com/doeshing/vibe-go/internal/domain"
)

type keywordRule struct {
	pattern *regexp.Regexp
	task    domain.TaskType
}

// First match wins, so order matters.
var keywordRules = []keywordRule{
	{regexp.MustCompile(`\b(generate|create|implement|write)\b`), domain.TaskCodeGeneration},
	{regexp.MustCompile(`\b(debug|error|fix|issue)\b`), domain.TaskDebug},
	{regexp.MustCompile(`\b(refactor|optimize|improve)\b`), domain.TaskRefactor},
	{regexp.MustCompile(`\b(test|spec|unit test)\b`), domain.TaskTestGeneration},
	{regexp.MustCompile(`\b(complete|finish|autocomplete)\b`), domain.TaskCompletion},
	{regexp.MustCompile(`\b(edit|modify|change)\b`), domain.TaskMultiEdit},
	{regexp.MustCompile(`\b(git|commit|pr|merge)\b`), domain.TaskGitAnalysis},
	{regexp.MustCompile(`\b(review|analyze|critique)\b`), domain.TaskCodeReview},
}

var commandTasks = map[string]domain.TaskType{
	"generate": domain.TaskCodeGeneration,
	"complete": domain.TaskCompletion,
	"refactor": domain.TaskRefactor,
	"edit":     domain.TaskMultiEdit,
	"debug":    domain.TaskDebug,
	"test":     domain.TaskTestGeneration,
	"git":      domain.TaskGitAnalysis,
	"review":   domain.TaskCodeReview,
	"chat":     domain.TaskChat,
}

// DetectTaskType maps a CLI command name, or failing that the prompt's
// keywords, to a task type. It never fails; unmatched input is chat.
func DetectTaskType(prompt, command string) domain.TaskType {
	if task, ok := commandTasks[strings.ToLower(strings.TrimSpace(command))]; ok {
		return task
	}

	lower := strings.ToLower(prompt)
	for _, rule := range keywordRules {
		if rule.pattern.MatchString(lower) {
			return rule.task
		}
	}
	return domain.TaskChat
}

// Router orders candidate models using the task table and the configured default.
type Router struct {
	defaultModel string
	freeModels   []string
	mapping      map[domain.TaskType][]string
}

// NewRouter builds a router from configuration.
func NewRouter(cfg domain.Config) *Router {
	return &Router{
		defaultModel: cfg.DefaultModelID(),
		freeModels:   cfg.FreeModelIDs(),
		mapping:      domain.TaskModelMapping(),
	}
}

// Route returns the preferred models for task with the default model
// promoted to the front, or appended when the task does not list it.
// An explicit model replaces the configured default.
func (r *Router) Route(task domain.TaskType, explicitModel string) []string {
	preferred, ok := r.mapping[task]
	if !ok {
		preferred = r.mapping[domain.TaskChat]
	}
	def := r.pickDefault(explicitModel)

	ordered := make([]string, 0, len(preferred)+1)
	if contains(preferred, def) {
		ordered = append(ordered, def)
		for _, model := range preferred {
			if model != def {
				ordered = append(ordered, model)
			}
		}
	} else {
		ordered = append(ordered, preferred...)
		ordered = append(ordered, def)
	}
	return dedupe(ordered)
}

// Fallback returns the start model followed by every other free model. It is
// used when the request carries neither a task type nor a prompt.
func (r *Router) Fallback(explicitModel string) []string {
	start := r.pickDefault(explicitModel)
	ordered := []string{start}
	for _, model := range r.freeModels {
		if model != start {
			ordered = append(ordered, model)
		}
	}
	return dedupe(ordered)
}

// Candidates chooses between Route and Fallback for a request.
func (r *Router) Candidates(req domain.CompletionRequest) []string {
	switch {
	case req.TaskType != "":
		return r.Route(req.TaskType, req.Model)
	case strings.TrimSpace(req.Prompt) != "":
		return r.Route(DetectTaskType(req.Prompt, ""), req.Model)
	default:
		return r.Fallback(req.Model)
	}
}

func (r *Router) pickDefault(explicitModel string) string {
	if model := strings.TrimSpace(explicitModel); model != "" {
		return model
	}
	if r.defaultModel != "" {
		return r.defaultModel
	}
	return domain.FallbackModelID
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
