package conversation

import (
	"encoding/json"
	"fmt"
)

// Transcripts serialize parts through a tagged envelope so the closed union
// survives a round trip: {"type":"text"|"tool_call"|"tool_result", ...}.

const (
	partTypeText       = "text"
	partTypeToolCall   = "tool_call"
	partTypeToolResult = "tool_result"
)

type partEnvelope struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_call
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input string `json:"input,omitempty"`

	// tool_result
	ToolCallID string `json:"tool_call_id,omitempty"`
	Output     string `json:"output,omitempty"`
}

type messageEnvelope struct {
	Role  Role           `json:"role"`
	Parts []partEnvelope `json:"parts"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	env := messageEnvelope{Role: m.Role, Parts: make([]partEnvelope, 0, len(m.Parts))}
	for _, part := range m.Parts {
		switch p := part.(type) {
		case TextPart:
			env.Parts = append(env.Parts, partEnvelope{Type: partTypeText, Text: p.Text})
		case ToolCallPart:
			env.Parts = append(env.Parts, partEnvelope{Type: partTypeToolCall, ID: p.ID, Name: p.Name, Input: p.Input})
		case ToolResultPart:
			env.Parts = append(env.Parts, partEnvelope{Type: partTypeToolResult, ToolCallID: p.ToolCallID, Output: p.Output})
		default:
			return nil, fmt.Errorf("unknown part type %T", part)
		}
	}
	return json.Marshal(env)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var env messageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	msg := Message{Role: env.Role}
	for _, p := range env.Parts {
		switch p.Type {
		case partTypeText:
			msg.Parts = append(msg.Parts, TextPart{Text: p.Text})
		case partTypeToolCall:
			msg.Parts = append(msg.Parts, ToolCallPart{ID: p.ID, Name: p.Name, Input: p.Input})
		case partTypeToolResult:
			msg.Parts = append(msg.Parts, ToolResultPart{ToolCallID: p.ToolCallID, Output: p.Output})
		default:
			return fmt.Errorf("unknown part type %q", p.Type)
		}
	}

	*m = msg
	return nil
}
