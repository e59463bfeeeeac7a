package conversation

import (
	kaiwaerrors "github.com/kaiwahq/kaiwa/internal/errors"
)

// SeparationMode controls how Normalize treats assistant messages that mix
// narrative text with tool calls.
type SeparationMode string

const (
	// SeparateTrailingToolCalls splits mixed assistant messages so that tool
	// calls always form their own trailing assistant message. Strict
	// providers reject histories where text follows a tool call in the same
	// turn.
	SeparateTrailingToolCalls SeparationMode = "trailing-tool-calls-only"

	// AllowMixed leaves assistant messages as-is.
	AllowMixed SeparationMode = "allow-mixed"
)

// Policy configures Normalize.
type Policy struct {
	SeparateTextFromToolCalls SeparationMode
	MergeAdjacentSameRole     bool
}

// DefaultPolicy matches the strictest provider behavior observed.
func DefaultPolicy() Policy {
	return Policy{
		SeparateTextFromToolCalls: SeparateTrailingToolCalls,
		MergeAdjacentSameRole:     false,
	}
}

// Normalize rewrites a conversation into the shape strict providers accept.
// It is pure (the input is never mutated), deterministic, and idempotent.
//
// Rewrites applied, in order per message:
//   - tool-result parts found inside a non-tool message are lifted out into
//     a dedicated tool message emitted before the remainder of the host
//     message (the classic defect: a result folded into the next user turn);
//   - under SeparateTrailingToolCalls, an assistant message mixing text and
//     tool calls becomes an assistant text message followed by an assistant
//     message containing only the calls;
//   - non-result parts inside a tool message are re-emitted as a user
//     message after the results, so nothing is dropped;
//   - with MergeAdjacentSameRole, consecutive same-role messages of the same
//     content kind are coalesced.
//
// Normalize never merges tool-role content into another role. That exact
// transformation is the malformed one it exists to undo, so the output is
// re-checked and an internal error is returned instead of malformed output.
func Normalize(conv Conversation, policy Policy) (Conversation, error) {
	out := make(Conversation, 0, len(conv))

	for _, msg := range conv {
		out = append(out, rewriteMessage(msg, policy)...)
	}

	if policy.MergeAdjacentSameRole {
		out = mergeAdjacent(out)
	}

	// Self-check: under no policy may the output mix tool-result content
	// with another role. Reaching this error is a bug in Normalize itself,
	// not bad input.
	for _, msg := range out {
		if msg.Role == RoleTool {
			for _, part := range msg.Parts {
				if _, ok := part.(ToolResultPart); !ok {
					return nil, kaiwaerrors.Internal("normalize produced a tool message with non-result content")
				}
			}
			continue
		}
		for _, part := range msg.Parts {
			if _, ok := part.(ToolResultPart); ok {
				return nil, kaiwaerrors.Internal("normalize produced a tool result outside a tool message")
			}
		}
	}

	return out, nil
}

func rewriteMessage(msg Message, policy Policy) []Message {
	var results []Part
	var rest []Part
	for _, part := range msg.Parts {
		if _, ok := part.(ToolResultPart); ok {
			results = append(results, part)
		} else {
			rest = append(rest, part)
		}
	}

	if msg.Role == RoleTool {
		var out []Message
		if len(results) > 0 {
			out = append(out, Message{Role: RoleTool, Parts: results})
		}
		if len(rest) > 0 {
			out = append(out, Message{Role: RoleUser, Parts: rest})
		}
		return out
	}

	var out []Message
	if len(results) > 0 {
		out = append(out, Message{Role: RoleTool, Parts: results})
	}
	if len(rest) == 0 {
		return out
	}

	if msg.Role == RoleAssistant && policy.SeparateTextFromToolCalls == SeparateTrailingToolCalls {
		var texts []Part
		var calls []Part
		for _, part := range rest {
			if _, ok := part.(ToolCallPart); ok {
				calls = append(calls, part)
			} else {
				texts = append(texts, part)
			}
		}
		if len(texts) > 0 && len(calls) > 0 {
			out = append(out,
				Message{Role: RoleAssistant, Parts: texts},
				Message{Role: RoleAssistant, Parts: calls},
			)
			return out
		}
	}

	out = append(out, Message{Role: msg.Role, Parts: rest})
	return out
}

// contentKind buckets a message by the part types it carries so the merge
// pass only coalesces messages that stay well-formed when joined.
func contentKind(msg Message) string {
	hasText := false
	hasCalls := false
	hasResults := false
	for _, part := range msg.Parts {
		switch part.(type) {
		case ToolCallPart:
			hasCalls = true
		case ToolResultPart:
			hasResults = true
		default:
			hasText = true
		}
	}
	switch {
	case hasResults && !hasText && !hasCalls:
		return "results"
	case hasCalls && !hasText && !hasResults:
		return "calls"
	case hasText && !hasCalls && !hasResults:
		return "text"
	default:
		return "mixed"
	}
}

func mergeAdjacent(conv Conversation) Conversation {
	out := make(Conversation, 0, len(conv))
	for _, msg := range conv {
		if len(out) > 0 {
			prev := &out[len(out)-1]
			// Identical role and identical content kind only. Merging across
			// roles, or folding calls/results into text, is never allowed.
			if prev.Role == msg.Role && contentKind(*prev) == contentKind(msg) && contentKind(msg) != "mixed" {
				merged := make([]Part, 0, len(prev.Parts)+len(msg.Parts))
				merged = append(merged, prev.Parts...)
				merged = append(merged, msg.Parts...)
				prev.Parts = merged
				continue
			}
		}
		out = append(out, Message{Role: msg.Role, Parts: append([]Part(nil), msg.Parts...)})
	}
	return out
}
