package domain

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content part types for multimodal messages.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// ContentPart is one element of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image, usually a base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// Message is a single chat turn. Content holds plain text; Parts, when set,
// holds multimodal content and takes precedence on the wire.
type Message struct {
	Role    Role
	Content string
	Parts   []ContentPart
}

// TextMessage builds a plain-text message.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Content: text}
}

// ImageMessage builds a user message with a text part followed by an image part.
func ImageMessage(text, dataURL string) Message {
	return Message{
		Role: RoleUser,
		Parts: []ContentPart{
			{Type: PartText, Text: text},
			{Type: PartImageURL, ImageURL: &ImageURL{URL: dataURL}},
		},
	}
}

// Text returns the textual content, joining text parts for multimodal messages.
func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var texts []string
	for _, part := range m.Parts {
		if part.Type == PartText && part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

type wireMessage struct {
	Role    Role            `json:"role"`
	Content json.RawMessage `json:"content"`
}

// MarshalJSON emits content as a string or as an array of parts.
func (m Message) MarshalJSON() ([]byte, error) {
	var (
		content []byte
		err     error
	)
	if len(m.Parts) > 0 {
		content, err = json.Marshal(m.Parts)
	} else {
		content, err = json.Marshal(m.Content)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireMessage{Role: m.Role, Content: content})
}

// UnmarshalJSON accepts string, array, or null content.
func (m *Message) UnmarshalJSON(data []byte) error {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = Message{Role: wire.Role}
	if len(wire.Content) == 0 || string(wire.Content) == "null" {
		return nil
	}
	if wire.Content[0] == '[' {
		return json.Unmarshal(wire.Content, &m.Parts)
	}
	return json.Unmarshal(wire.Content, &m.Content)
}

// CompletionRequest is the input of a chat completion.
type CompletionRequest struct {
	APIKey      string
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
	Thinking    *bool
	TaskType    TaskType
	Prompt      string
	// Kind labels the history record; edits record their own summary and
	// are skipped by the completion service.
	Kind        HistoryKind
}

// Attempt records one candidate model call.
type Attempt struct {
	Model       string
	RateLimited bool
	Err         error
}

// CompletionResult is a successful chat completion.
type CompletionResult struct {
	Model    string
	Message  Message
	Attempts []Attempt
}

// Float64 returns a pointer to v, for optional request fields.
func Float64(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v, for optional request fields.
func Bool(v bool) *bool {
	return &v
}
