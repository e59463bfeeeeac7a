package conversation

// Role identifies who produced a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Part is a single segment of message content. The set of part types is
// closed; the unexported marker keeps external packages from adding to it.
type Part interface{ isPart() }

// TextPart is plain text content.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) isPart() {}

// ToolCallPart is a tool invocation emitted by the assistant.
type ToolCallPart struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input,omitempty"` // serialized JSON arguments
}

func (ToolCallPart) isPart() {}

// ToolResultPart carries the output of a tool call back to the model.
type ToolResultPart struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output,omitempty"`
}

func (ToolResultPart) isPart() {}

// Message is one conversational turn: a role plus ordered content parts.
type Message struct {
	Role  Role
	Parts []Part
}

// Conversation is an ordered message sequence. Order is turn order and is
// semantically significant.
type Conversation []Message

// Text builds a single-part text message.
func Text(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{TextPart{Text: text}}}
}

// JoinedText returns the concatenation of the message's text parts.
func (m Message) JoinedText() string {
	var out string
	for _, p := range m.Parts {
		if t, ok := p.(TextPart); ok {
			out += t.Text
		}
	}
	return out
}

// ToolCalls returns the message's tool-call parts in order.
func (m Message) ToolCalls() []ToolCallPart {
	var calls []ToolCallPart
	for _, p := range m.Parts {
		if c, ok := p.(ToolCallPart); ok {
			calls = append(calls, c)
		}
	}
	return calls
}

// ToolResults returns the message's tool-result parts in order.
func (m Message) ToolResults() []ToolResultPart {
	var results []ToolResultPart
	for _, p := range m.Parts {
		if r, ok := p.(ToolResultPart); ok {
			results = append(results, r)
		}
	}
	return results
}

// Clone returns a value copy of the conversation with fresh part slices.
func (c Conversation) Clone() Conversation {
	out := make(Conversation, len(c))
	for i, m := range c {
		parts := make([]Part, len(m.Parts))
		copy(parts, m.Parts)
		out[i] = Message{Role: m.Role, Parts: parts}
	}
	return out
}
