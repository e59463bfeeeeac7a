package conversation

import (
	"testing"
)

func assistantCallThenText(id string) Message {
	return Message{Role: RoleAssistant, Parts: []Part{
		ToolCallPart{ID: id, Name: "generate_items", Input: `{"count":10}`},
		TextPart{Text: "Generated code."},
	}}
}

func toolResult(id string) Message {
	return Message{Role: RoleTool, Parts: []Part{ToolResultPart{ToolCallID: id, Output: "ok"}}}
}

func TestValidateWellFormedToolRoundTrip(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "generate 10 items"),
		assistantCallThenText("t1"),
		toolResult("t1"),
		Text(RoleUser, "generate 100 items"),
	}

	issues := Validate(conv)
	if len(issues) != 0 {
		t.Fatalf("expected well-formed conversation, got %d issue(s): %v", len(issues), issues)
	}
}

func TestValidateResultFoldedIntoUserMessage(t *testing.T) {
	// The classic defect: the tool result got folded into the next user turn
	// instead of appearing as its own tool message.
	conv := Conversation{
		Text(RoleUser, "generate 10 items"),
		assistantCallThenText("t1"),
		{Role: RoleUser, Parts: []Part{
			ToolResultPart{ToolCallID: "t1", Output: "ok"},
			TextPart{Text: "generate 100 items"},
		}},
	}

	issues := Validate(conv)

	var unresolved, mixed *Issue
	for i := range issues {
		switch issues[i].Kind {
		case IssueUnresolvedToolCall:
			unresolved = &issues[i]
		case IssueMixedToolMessageContent:
			mixed = &issues[i]
		}
	}

	if unresolved == nil {
		t.Fatalf("expected unresolved tool call issue, got %v", issues)
	}
	if len(unresolved.ToolCallIDs) != 1 || unresolved.ToolCallIDs[0] != "t1" {
		t.Fatalf("expected unresolved ids [t1], got %v", unresolved.ToolCallIDs)
	}
	if unresolved.MessageIndex != 2 {
		t.Fatalf("expected unresolved at index 2, got %d", unresolved.MessageIndex)
	}

	if mixed == nil {
		t.Fatalf("expected mixed tool message content issue, got %v", issues)
	}
	if mixed.MessageIndex != 2 {
		t.Fatalf("expected mixed content at index 2, got %d", mixed.MessageIndex)
	}
}

func TestValidateDanglingCallAtEndOfConversation(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "run a command"),
		{Role: RoleAssistant, Parts: []Part{ToolCallPart{ID: "call_1", Name: "exec_command"}}},
	}

	issues := Validate(conv)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", issues)
	}
	if issues[0].Kind != IssueUnresolvedToolCall {
		t.Fatalf("expected unresolved tool call, got %s", issues[0].Kind)
	}
	if issues[0].MessageIndex != len(conv) {
		t.Fatalf("expected issue at end of conversation (%d), got %d", len(conv), issues[0].MessageIndex)
	}
}

func TestValidateNextAssistantTurnAbandonsOpenCalls(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "hi"),
		{Role: RoleAssistant, Parts: []Part{ToolCallPart{ID: "a", Name: "search"}}},
		Text(RoleAssistant, "never mind, answering directly"),
	}

	issues := Validate(conv)
	if len(issues) != 1 || issues[0].Kind != IssueUnresolvedToolCall {
		t.Fatalf("expected single unresolved tool call issue, got %v", issues)
	}
	if issues[0].MessageIndex != 2 {
		t.Fatalf("expected issue at index 2, got %d", issues[0].MessageIndex)
	}
}

func TestValidateUnmatchedToolResult(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "hi"),
		toolResult("ghost"),
	}

	issues := Validate(conv)
	if len(issues) != 1 || issues[0].Kind != IssueUnmatchedToolResult {
		t.Fatalf("expected unmatched tool result, got %v", issues)
	}
	if issues[0].ToolCallIDs[0] != "ghost" {
		t.Fatalf("expected id ghost, got %v", issues[0].ToolCallIDs)
	}
}

func TestValidateDuplicateToolCallID(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "hi"),
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart{ID: "dup", Name: "a"},
			ToolCallPart{ID: "dup", Name: "b"},
		}},
		toolResult("dup"),
	}

	issues := Validate(conv)

	found := false
	for _, issue := range issues {
		if issue.Kind == IssueDuplicateToolCallID && issue.ToolCallIDs[0] == "dup" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate tool call id issue, got %v", issues)
	}
}

func TestValidateMixedToolMessageContent(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "hi"),
		{Role: RoleAssistant, Parts: []Part{ToolCallPart{ID: "t1", Name: "x"}}},
		{Role: RoleTool, Parts: []Part{
			ToolResultPart{ToolCallID: "t1", Output: "ok"},
			TextPart{Text: "stray commentary"},
		}},
	}

	issues := Validate(conv)
	if len(issues) != 1 || issues[0].Kind != IssueMixedToolMessageContent {
		t.Fatalf("expected mixed tool message content only, got %v", issues)
	}
	if issues[0].MessageIndex != 2 {
		t.Fatalf("expected issue at index 2, got %d", issues[0].MessageIndex)
	}
}

func TestValidateMultipleCallsResolvedAcrossToolMessages(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "do two things"),
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart{ID: "a", Name: "first"},
			ToolCallPart{ID: "b", Name: "second"},
		}},
		toolResult("b"),
		toolResult("a"),
		Text(RoleAssistant, "both done"),
	}

	if issues := Validate(conv); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidatePartialResolutionReportsRemainder(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "do two things"),
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart{ID: "a", Name: "first"},
			ToolCallPart{ID: "b", Name: "second"},
		}},
		toolResult("a"),
		Text(RoleUser, "what happened?"),
	}

	issues := Validate(conv)
	if len(issues) != 1 || issues[0].Kind != IssueUnresolvedToolCall {
		t.Fatalf("expected single unresolved issue, got %v", issues)
	}
	if len(issues[0].ToolCallIDs) != 1 || issues[0].ToolCallIDs[0] != "b" {
		t.Fatalf("expected unresolved ids [b], got %v", issues[0].ToolCallIDs)
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	conv := Conversation{
		Text(RoleUser, "hi"),
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart{ID: "z", Name: "one"},
			ToolCallPart{ID: "a", Name: "two"},
		}},
		Text(RoleUser, "hello?"),
	}

	first := Validate(conv)
	for i := 0; i < 20; i++ {
		again := Validate(conv)
		if len(again) != len(first) {
			t.Fatalf("issue count changed between runs")
		}
		for j := range again {
			if again[j].Kind != first[j].Kind || again[j].MessageIndex != first[j].MessageIndex {
				t.Fatalf("issue order changed between runs: %v vs %v", again, first)
			}
			for k := range again[j].ToolCallIDs {
				if again[j].ToolCallIDs[k] != first[j].ToolCallIDs[k] {
					t.Fatalf("id order changed between runs: %v vs %v", again[j].ToolCallIDs, first[j].ToolCallIDs)
				}
			}
		}
	}
}
