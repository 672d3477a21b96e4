package models

import "time"

// MessageRole identifies the sender of a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// ChatMessage is a single message in a chat conversation.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp,omitempty"`
}

// ChatRequest is the payload of a chat call: the conversation history, the
// age group the response should be tailored to, and an optional free-form
// context carried between calls.
type ChatRequest struct {
	Messages []ChatMessage  `json:"messages"`
	AgeGroup AgeGroup       `json:"age_group"`
	Context  map[string]any `json:"context,omitempty"`
}

// ChatResponse is the assistant's reply together with the updated
// conversation context and up to five topic suggestions.
type ChatResponse struct {
	Response    string         `json:"response"`
	Context     map[string]any `json:"context"`
	Suggestions []string       `json:"suggestions"`
}
