package contract

import "github.com/kaiwahq/kaiwa/internal/conversation"

type CompletionRequest struct {
	Model        string                    `json:"model"`
	Conversation conversation.Conversation `json:"conversation"`
	Tools        []ToolDef                 `json:"tools,omitempty"`
}

type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type CompletionResponse struct {
	Content   string      `json:"content"`
	ToolCalls []*ToolCall `json:"tool_calls,omitempty"`
}

type ToolCall struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

// Message converts the response into a conversation turn the caller can
// append to history.
func (r *CompletionResponse) Message() conversation.Message {
	msg := conversation.Message{Role: conversation.RoleAssistant}
	if r.Content != "" {
		msg.Parts = append(msg.Parts, conversation.TextPart{Text: r.Content})
	}
	for _, tc := range r.ToolCalls {
		msg.Parts = append(msg.Parts, conversation.ToolCallPart{ID: tc.ID, Name: tc.Name, Input: tc.Input})
	}
	return msg
}
