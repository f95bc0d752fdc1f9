// Package domain defines core business entities and value objects for vibe.
//
// This file contains the OpenRouter model catalogue and the task types used by
// the router. The domain layer is independent of infrastructure concerns and
// represents pure business logic and data structures.
package domain

import (
	"encoding/json"
	"strings"
)

// TaskType classifies a request so the router can pick suitable models.
type TaskType string

const (
	TaskCodeGeneration TaskType = "code-generation"
	TaskChat           TaskType = "chat"
	TaskDebug          TaskType = "debug"
	TaskLongContext    TaskType = "long-context"
	TaskRefactor       TaskType = "refactor"
	TaskTestGeneration TaskType = "test-generation"
	TaskCompletion     TaskType = "completion"
	TaskMultiEdit      TaskType = "multi-edit"
	TaskGitAnalysis    TaskType = "git-analysis"
	TaskCodeReview     TaskType = "code-review"
)

// AllTaskTypes lists every task type in routing-table order.
func AllTaskTypes() []TaskType {
	return []TaskType{
		TaskCodeGeneration,
		TaskChat,
		TaskDebug,
		TaskLongContext,
		TaskRefactor,
		TaskTestGeneration,
		TaskCompletion,
		TaskMultiEdit,
		TaskGitAnalysis,
		TaskCodeReview,
	}
}

// ParseTaskType accepts a task type name; ok is false for unknown names.
func ParseTaskType(value string) (TaskType, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, task := range AllTaskTypes() {
		if string(task) == value {
			return task, true
		}
	}
	return "", false
}

// FreeModel describes an entry of the curated free-model list.
type FreeModel struct {
	ID   string `json:"id" yaml:"id"`
	Ctx  int    `json:"ctx,omitempty" yaml:"ctx,omitempty"`
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// UnmarshalJSON accepts both the object form and a bare model id string.
func (m *FreeModel) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*m = FreeModel{ID: id}
		return nil
	}
	type plain FreeModel
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*m = FreeModel(decoded)
	return nil
}

// Model catalogue defaults.
const (
	DefaultModelID  = "z-ai/glm-4.5-air:free"
	VisionModelID   = "google/gemini-2.0-flash-exp:free"
	FallbackModelID = DefaultModelID
)

// DefaultFreeModels returns the curated list of free models shipped with vibe.
func DefaultFreeModels() []FreeModel {
	return []FreeModel{
		{ID: "tng/deepseek-r1t2-chimera:free", Ctx: 164000, Note: "long-context reasoning"},
		{ID: "z-ai/glm-4.5-air:free", Ctx: 131000, Note: "default, agentic coding"},
		{ID: "tng/deepseek-r1t-chimera:free", Ctx: 164000, Note: "balanced reasoning"},
		{ID: "kwaipilot/kat-coder-pro-v1:free", Ctx: 256000, Note: "SWE-Bench strong"},
		{ID: "deepseek/deepseek-v3-0324:free", Ctx: 164000, Note: "flagship chat"},
		{ID: "deepseek/r1-0528:free", Ctx: 164000, Note: "open reasoning"},
		{ID: "qwen/qwen3-coder-480b-a35b:free", Ctx: 262000, Note: "MoE code gen"},
		{ID: "google/gemini-2.0-flash-exp:free", Ctx: 1050000, Note: "multimodal/fast"},
		{ID: "google/gemma-3-27b:free", Ctx: 131000, Note: "vision/math/reasoning"},
	}
}

// TaskModelMapping returns the preferred models for every task type.
// A fresh map is built on each call so callers may not corrupt the table.
func TaskModelMapping() map[TaskType][]string {
	return map[TaskType][]string{
		TaskCodeGeneration: {"deepseek/deepseek-coder-v2-lite", "qwen/qwen2.5-coder-7b"},
		TaskChat:           {"z-ai/glm-4.5-air:free", "mistral/mistral-nemo-instruct"},
		TaskDebug:          {"qwen/qwen3-coder-480b", "kwaipilot/kat-coder-pro"},
		TaskLongContext:    {"google/gemini-2.0-flash-exp:free"},
		TaskRefactor:       {"kwaipilot/kat-coder-pro-v1:free", "deepseek/deepseek-coder-v2-lite"},
		TaskTestGeneration: {"qwen/qwen3-coder-480b-a35b:free", "deepseek/deepseek-coder-v2-lite"},
		TaskCompletion:     {"deepseek/deepseek-coder-v2-lite", "qwen/qwen2.5-coder-7b"},
		TaskMultiEdit:      {"kwaipilot/kat-coder-pro-v1:free", "z-ai/glm-4.5-air:free"},
		TaskGitAnalysis:    {"z-ai/glm-4.5-air:free", "mistral/mistral-nemo-instruct"},
		TaskCodeReview:     {"kwaipilot/kat-coder-pro-v1:free", "qwen/qwen3-coder-480b-a35b:free"},
	}
}
