package model

import (
	"context"
	"errors"
	"testing"

	"github.com/kaiwahq/kaiwa/internal/config"
	"github.com/kaiwahq/kaiwa/internal/conversation"
	kaiwaErrors "github.com/kaiwahq/kaiwa/internal/errors"
	"github.com/kaiwahq/kaiwa/internal/model/contract"
)

type mockProvider struct {
	name  string
	calls []contract.CompletionRequest
	fail  error
}

func (p *mockProvider) Name() string { return p.name }

func (p *mockProvider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	p.calls = append(p.calls, req)
	if p.fail != nil {
		return nil, p.fail
	}
	return &contract.CompletionResponse{Content: "done"}, nil
}

func newTestRouter(t *testing.T, cfg config.ModelsConfig) *DefaultModelRouter {
	t.Helper()
	router, err := NewModelRouter(cfg)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router
}

func wellFormedConversation() conversation.Conversation {
	return conversation.Conversation{
		conversation.Text(conversation.RoleUser, "run a command"),
		{Role: conversation.RoleAssistant, Parts: []conversation.Part{
			conversation.ToolCallPart{ID: "call_1", Name: "exec_command", Input: `{"cmd":"echo hello"}`},
		}},
		{Role: conversation.RoleTool, Parts: []conversation.Part{
			conversation.ToolResultPart{ToolCallID: "call_1", Output: "hello"},
		}},
	}
}

func TestRouteDispatchesWellFormedConversation(t *testing.T) {
	router := newTestRouter(t, config.ModelsConfig{Default: "mock"})
	mock := &mockProvider{name: "mock"}
	router.Register("mock", mock)

	resp, err := router.Route(context.Background(), "mock", contract.CompletionRequest{
		Model:        "mock",
		Conversation: wellFormedConversation(),
	})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if resp.Content != "done" {
		t.Fatalf("unexpected response content %q", resp.Content)
	}
	if len(mock.calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(mock.calls))
	}
}

func TestRouteRejectsDanglingToolCallBeforeDispatch(t *testing.T) {
	router := newTestRouter(t, config.ModelsConfig{})
	mock := &mockProvider{name: "mock"}
	router.Register("mock", mock)

	conv := conversation.Conversation{
		conversation.Text(conversation.RoleUser, "run a command"),
		{Role: conversation.RoleAssistant, Parts: []conversation.Part{
			conversation.ToolCallPart{ID: "call_1", Name: "exec_command"},
		}},
		conversation.Text(conversation.RoleUser, "never mind"),
	}

	_, err := router.Route(context.Background(), "mock", contract.CompletionRequest{Model: "mock", Conversation: conv})
	if !errors.Is(err, kaiwaErrors.ErrMalformedConversation) {
		t.Fatalf("expected malformed conversation error, got %v", err)
	}
	if len(mock.calls) != 0 {
		t.Fatalf("malformed conversation must never reach the provider, got %d call(s)", len(mock.calls))
	}
}

func TestRouteFallsBackWhenPrimaryFails(t *testing.T) {
	router := newTestRouter(t, config.ModelsConfig{
		Fallback:            "backup",
		MaxFallbackAttempts: 2,
	})
	primary := &mockProvider{name: "primary", fail: errors.New("connection refused")}
	backup := &mockProvider{name: "backup"}
	router.Register("primary", primary)
	router.Register("backup", backup)

	resp, err := router.Route(context.Background(), "primary", contract.CompletionRequest{
		Model:        "primary",
		Conversation: wellFormedConversation(),
	})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if resp.Content != "done" {
		t.Fatalf("unexpected content %q", resp.Content)
	}
	if len(primary.calls) != 1 || len(backup.calls) != 1 {
		t.Fatalf("expected one call each, got primary=%d backup=%d", len(primary.calls), len(backup.calls))
	}
	if backup.calls[0].Model != "backup" {
		t.Fatalf("expected fallback request model rewritten to backup, got %q", backup.calls[0].Model)
	}
}

func TestRouteUnknownModelResolvesFallback(t *testing.T) {
	router := newTestRouter(t, config.ModelsConfig{Fallback: "backup"})
	backup := &mockProvider{name: "backup"}
	router.Register("backup", backup)

	_, err := router.Route(context.Background(), "missing", contract.CompletionRequest{
		Model:        "missing",
		Conversation: wellFormedConversation(),
	})
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if len(backup.calls) != 1 {
		t.Fatalf("expected fallback provider call, got %d", len(backup.calls))
	}
}

func TestRouteUnknownModelWithoutFallback(t *testing.T) {
	router := newTestRouter(t, config.ModelsConfig{})

	_, err := router.Route(context.Background(), "missing", contract.CompletionRequest{
		Model:        "missing",
		Conversation: wellFormedConversation(),
	})
	if !errors.Is(err, kaiwaErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
