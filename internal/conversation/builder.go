package conversation

import "github.com/oklog/ulid/v2"

// NewToolCallID mints a unique id for a tool call.
func NewToolCallID() string {
	return "call_" + ulid.Make().String()
}

// Builder assembles a conversation turn by turn. It is a convenience for
// callers maintaining chat history; the zero value is ready to use.
type Builder struct {
	msgs Conversation
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) System(text string) *Builder {
	b.msgs = append(b.msgs, Text(RoleSystem, text))
	return b
}

func (b *Builder) User(text string) *Builder {
	b.msgs = append(b.msgs, Text(RoleUser, text))
	return b
}

func (b *Builder) Assistant(parts ...Part) *Builder {
	b.msgs = append(b.msgs, Message{Role: RoleAssistant, Parts: parts})
	return b
}

// Call builds a tool-call part, minting an id when none is supplied.
func Call(id, name, input string) ToolCallPart {
	if id == "" {
		id = NewToolCallID()
	}
	return ToolCallPart{ID: id, Name: name, Input: input}
}

// ToolResult appends a dedicated tool message resolving the given call.
func (b *Builder) ToolResult(toolCallID, output string) *Builder {
	b.msgs = append(b.msgs, Message{Role: RoleTool, Parts: []Part{
		ToolResultPart{ToolCallID: toolCallID, Output: output},
	}})
	return b
}

// Append adds an arbitrary message, e.g. an assistant reply returned by a
// provider.
func (b *Builder) Append(msg Message) *Builder {
	b.msgs = append(b.msgs, msg)
	return b
}

// Build returns a value copy; the builder remains usable for further turns.
func (b *Builder) Build() Conversation {
	return b.msgs.Clone()
}
