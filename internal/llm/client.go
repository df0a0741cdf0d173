// Package llm defines the intent-resolver client interface. The model turns
// free text into either a plain reply or a structured tool call; everything
// after that point is the dispatcher's job.
package llm

import (
	"context"
	"encoding/json"
	"time"
)

// Role constants for messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message is a single turn in a conversation.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a model request to invoke a named operation.
type ToolCall struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

// ToolDef describes an operation the model may select.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"` // JSON Schema object
}

// ChatResponse is the result of a chat completion.
type ChatResponse struct {
	Message  Message       `json:"message"`
	Model    string        `json:"model,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Client is the interface intent-resolver providers implement.
type Client interface {
	// Chat sends the conversation and available tools, returning the
	// model's reply, which may carry tool calls.
	Chat(ctx context.Context, messages []Message, tools []ToolDef) (*ChatResponse, error)

	// Name returns the provider name.
	Name() string
}
