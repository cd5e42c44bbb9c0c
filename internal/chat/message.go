package chat

import "encoding/json"

// Role discriminates the message union.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is one tool invocation requested by an assistant message.
// Args carries the raw JSON argument object untouched; the core never
// interprets it.
type ToolCall struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Message is one entry of a conversation history.
//
// ToolCalls is only meaningful for assistant messages. ToolCallID and
// IsError are only meaningful for tool messages, where ToolCallID
// back-references the call the result answers.
type Message struct {
	Role       Role       `json:"role"`
	Content    Content    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	IsError    bool       `json:"is_error,omitempty"`
}

func System(text string) Message {
	return Message{Role: RoleSystem, Content: Text(text)}
}

func User(text string) Message {
	return Message{Role: RoleUser, Content: Text(text)}
}

func Assistant(text string) Message {
	return Message{Role: RoleAssistant, Content: Text(text)}
}

// ToolResult builds the tool message answering the call with the given ID.
func ToolResult(callID, text string, isError bool) Message {
	return Message{Role: RoleTool, Content: Text(text), ToolCallID: callID, IsError: isError}
}

// HasToolCalls reports whether m is an assistant message with pending calls.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}
