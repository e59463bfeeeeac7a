package conversation

import (
	"fmt"
	"strings"
)

// IssueKind classifies a structural defect found by Validate.
type IssueKind string

const (
	// IssueUnresolvedToolCall - a tool call never got a matching result before
	// the conversation moved on to the next turn (or ended).
	IssueUnresolvedToolCall IssueKind = "unresolved_tool_call"

	// IssueUnmatchedToolResult - a tool result references an id that no open
	// assistant tool call declared.
	IssueUnmatchedToolResult IssueKind = "unmatched_tool_result"

	// IssueDuplicateToolCallID - the same id declared twice without resolution.
	IssueDuplicateToolCallID IssueKind = "duplicate_tool_call_id"

	// IssueMixedToolMessageContent - tool-result content mixed with content
	// belonging to a different turn (result folded into a user message, or a
	// tool message carrying non-result parts).
	IssueMixedToolMessageContent IssueKind = "mixed_tool_message_content"
)

// Issue is one structural problem located in a conversation.
type Issue struct {
	Kind         IssueKind `json:"kind"`
	MessageIndex int       `json:"message_index"`
	ToolCallIDs  []string  `json:"tool_call_ids,omitempty"`
}

func (i Issue) Error() string {
	switch i.Kind {
	case IssueUnresolvedToolCall:
		return fmt.Sprintf("invalid message sequence at index %d: tool call(s) %s never received a matching tool result before the conversation advanced", i.MessageIndex, strings.Join(i.ToolCallIDs, ", "))
	case IssueUnmatchedToolResult:
		return fmt.Sprintf("invalid message sequence at index %d: tool result references id %q that does not match any open assistant tool call", i.MessageIndex, first(i.ToolCallIDs))
	case IssueDuplicateToolCallID:
		return fmt.Sprintf("invalid message sequence at index %d: tool call id %q declared twice without resolution", i.MessageIndex, first(i.ToolCallIDs))
	case IssueMixedToolMessageContent:
		return fmt.Sprintf("invalid message sequence at index %d: tool-result content mixed with another turn's content", i.MessageIndex)
	default:
		return fmt.Sprintf("invalid message sequence at index %d", i.MessageIndex)
	}
}

func first(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// Validate scans a conversation in order and reports every structural
// problem in its tool-call / tool-result pairing and role placement. It is a
// pure function: no side effects, deterministic output, safe for concurrent
// use on independent conversations.
//
// The rule it enforces: every tool call declared by an assistant message
// must be resolved by exactly one tool-role message carrying a matching
// tool result before any other user, system, or assistant message appears.
func Validate(conv Conversation) []Issue {
	var issues []Issue

	// Pending ids in declaration order so reports are deterministic.
	pending := make(map[string]int)
	var pendingOrder []string

	flushPending := func(atIndex int) {
		if len(pendingOrder) == 0 {
			return
		}
		ids := make([]string, len(pendingOrder))
		copy(ids, pendingOrder)
		issues = append(issues, Issue{Kind: IssueUnresolvedToolCall, MessageIndex: atIndex, ToolCallIDs: ids})
		pending = make(map[string]int)
		pendingOrder = nil
	}

	for idx, msg := range conv {
		switch msg.Role {
		case RoleTool:
			mixed := false
			for _, part := range msg.Parts {
				switch p := part.(type) {
				case ToolResultPart:
					if _, open := pending[p.ToolCallID]; open {
						delete(pending, p.ToolCallID)
						pendingOrder = remove(pendingOrder, p.ToolCallID)
					} else {
						issues = append(issues, Issue{Kind: IssueUnmatchedToolResult, MessageIndex: idx, ToolCallIDs: []string{p.ToolCallID}})
					}
				default:
					mixed = true
				}
			}
			if mixed {
				issues = append(issues, Issue{Kind: IssueMixedToolMessageContent, MessageIndex: idx})
			}

		case RoleAssistant:
			// A new assistant turn abandons any still-open calls.
			flushPending(idx)
			mixed := false
			for _, part := range msg.Parts {
				switch p := part.(type) {
				case ToolCallPart:
					if _, dup := pending[p.ID]; dup {
						issues = append(issues, Issue{Kind: IssueDuplicateToolCallID, MessageIndex: idx, ToolCallIDs: []string{p.ID}})
						continue
					}
					pending[p.ID] = idx
					pendingOrder = append(pendingOrder, p.ID)
				case ToolResultPart:
					// Results belong in a dedicated tool message.
					mixed = true
				}
			}
			if mixed {
				issues = append(issues, Issue{Kind: IssueMixedToolMessageContent, MessageIndex: idx})
			}

		case RoleUser, RoleSystem:
			flushPending(idx)
			mixed := false
			for _, part := range msg.Parts {
				switch part.(type) {
				case ToolResultPart, ToolCallPart:
					mixed = true
				}
			}
			if mixed {
				issues = append(issues, Issue{Kind: IssueMixedToolMessageContent, MessageIndex: idx})
			}
		}
	}

	flushPending(len(conv))

	return issues
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
