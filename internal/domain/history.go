package domain

import "time"

// HistoryKind separates the kinds of recorded interactions.
type HistoryKind string

const (
	HistoryChat HistoryKind = "chat"
	HistoryEdit HistoryKind = "edit"
	HistoryView HistoryKind = "view"
)

// HistoryRecord captures one completion or edit run.
type HistoryRecord struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Kind       HistoryKind `json:"kind"`
	Prompt     string      `json:"prompt"`
	Model      string      `json:"model"`
	TaskType   TaskType    `json:"task_type"`
	Attempts   int         `json:"attempts"`
	Success    bool        `json:"success"`
	Files      int         `json:"files"`
	DurationMS int64       `json:"duration_ms"`
	Error      string      `json:"error,omitempty"`
}
