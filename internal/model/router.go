package model

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kaiwahq/kaiwa/internal/config"
	"github.com/kaiwahq/kaiwa/internal/conversation"
	kaiwaErrors "github.com/kaiwahq/kaiwa/internal/errors"
	"github.com/kaiwahq/kaiwa/internal/logger"
	"github.com/kaiwahq/kaiwa/internal/model/contract"
	anthropicProvider "github.com/kaiwahq/kaiwa/internal/model/providers/anthropic"
	geminiProvider "github.com/kaiwahq/kaiwa/internal/model/providers/gemini"
	openaiProvider "github.com/kaiwahq/kaiwa/internal/model/providers/openai"
)

// DefaultModelRouter implements ModelRouter interface
type DefaultModelRouter struct {
	cfg       config.ModelsConfig
	providers map[string]Provider
	mu        sync.RWMutex
}

// NewModelRouter creates a new model router
func NewModelRouter(cfg config.ModelsConfig) (*DefaultModelRouter, error) {
	router := &DefaultModelRouter{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}

	if err := router.initProviders(); err != nil {
		return nil, err
	}

	return router, nil
}

// Route validates the conversation, then dispatches the request to the
// provider registered for the model, falling back when configured. The
// validation gate is what makes a strict provider's structural rejection
// unreachable: a malformed history never leaves this process.
func (r *DefaultModelRouter) Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	traceID := logger.GetTraceID(ctx)

	if issues := conversation.Validate(req.Conversation); len(issues) > 0 {
		for _, issue := range issues {
			slog.Warn("Conversation rejected before dispatch", "kind", issue.Kind, "message_index", issue.MessageIndex, "trace_id", traceID)
		}
		return nil, kaiwaErrors.MalformedConversation(fmt.Sprintf("%d structural issue(s), first: %s", len(issues), issues[0].Error()))
	}

	slog.Info("Routing completion request", "model", model, "trace_id", traceID, "transcript_id", logger.GetTranscriptID(ctx))

	provider, err := r.resolveProvider(ctx, model)
	if err != nil {
		return nil, err
	}

	return r.executeWithFallback(ctx, model, provider, req, traceID)
}

// Register adds or replaces a provider under a model name.
func (r *DefaultModelRouter) Register(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// ListModels returns all registered model names
func (r *DefaultModelRouter) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.providers))
	for name := range r.providers {
		models = append(models, name)
	}

	return models
}

// initProviders initializes all providers from configuration
func (r *DefaultModelRouter) initProviders() error {
	for _, entry := range r.cfg.Registry {
		provider, err := r.createProvider(entry)
		if err != nil {
			slog.Warn("Failed to create provider", "provider", entry.Provider, "model", entry.Name, "error", err)
			continue
		}

		r.providers[entry.Name] = provider
		slog.Info("Provider initialized", "name", entry.Name, "type", entry.Provider)
	}

	if len(r.providers) == 0 && len(r.cfg.Registry) > 0 {
		return kaiwaErrors.Internal("no providers initialized")
	}

	return nil
}

// resolveProvider resolves a provider by model name with fallback
func (r *DefaultModelRouter) resolveProvider(ctx context.Context, model string) (Provider, error) {
	select {
	case <-ctx.Done():
		return nil, kaiwaErrors.Wrap(ctx.Err(), "provider resolution cancelled")
	default:
	}

	r.mu.RLock()
	provider, exists := r.providers[model]
	r.mu.RUnlock()

	if exists {
		return provider, nil
	}

	slog.Warn("Model not found", "model", model)

	if r.cfg.Fallback != "" && model != r.cfg.Fallback {
		slog.Info("Trying fallback model", "model", model, "fallback", r.cfg.Fallback)

		r.mu.RLock()
		fallbackProvider, fallbackExists := r.providers[r.cfg.Fallback]
		r.mu.RUnlock()
		if fallbackExists {
			return fallbackProvider, nil
		}
	}

	return nil, kaiwaErrors.NotFound(fmt.Sprintf("model %s not found", model))
}

// executeWithFallback executes a request with fallback logic
func (r *DefaultModelRouter) executeWithFallback(ctx context.Context, model string, provider Provider, req contract.CompletionRequest, traceID string) (*contract.CompletionResponse, error) {
	maxAttempts := r.cfg.MaxFallbackAttempts
	if maxAttempts < 1 {
		maxAttempts = config.DefaultModelMaxFallbackAttempts
	}

	currentModel := model
	currentProvider := provider

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, kaiwaErrors.Wrap(ctx.Err(), "request execution cancelled")
		default:
		}

		attemptReq := req
		attemptReq.Model = currentModel

		resp, err := currentProvider.Generate(ctx, attemptReq)
		if err == nil {
			slog.Info("Request completed", "model", currentModel, "attempt", attempt+1, "trace_id", traceID)
			return resp, nil
		}

		mapped := kaiwaErrors.MapProviderError(err)
		slog.Error("Provider request failed", "model", currentModel, "attempt", attempt+1, "category", kaiwaErrors.Category(mapped), "error", err)

		if r.cfg.Fallback == "" || currentModel == r.cfg.Fallback {
			return nil, mapped
		}

		slog.Info("Attempting fallback", "from", currentModel, "to", r.cfg.Fallback)

		r.mu.RLock()
		fallbackProvider, exists := r.providers[r.cfg.Fallback]
		r.mu.RUnlock()
		if !exists {
			return nil, kaiwaErrors.NotFound(fmt.Sprintf("fallback model %s not found", r.cfg.Fallback))
		}

		currentModel = r.cfg.Fallback
		currentProvider = fallbackProvider
	}

	return nil, kaiwaErrors.Internal("fallback exhausted")
}

// createProvider creates a provider instance based on registry entry
func (r *DefaultModelRouter) createProvider(entry config.ModelRegistry) (Provider, error) {
	switch entry.Provider {
	case "openai":
		baseURL := entry.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOpenAIBaseURL
		}

		if entry.APIKey == "" {
			return nil, kaiwaErrors.InvalidInput("API key required for OpenAI provider")
		}

		return openaiProvider.New(entry.APIKey, baseURL, entry.Name), nil

	case "anthropic":
		if entry.APIKey == "" {
			return nil, kaiwaErrors.InvalidInput("API key required for Anthropic provider")
		}

		return anthropicProvider.New(entry.APIKey), nil

	case "gemini":
		if entry.APIKey == "" {
			return nil, kaiwaErrors.InvalidInput("API key required for Gemini provider")
		}

		provider, err := geminiProvider.New(entry.APIKey)
		if err != nil {
			return nil, kaiwaErrors.WrapWithCategory(err, "failed to create Gemini provider", kaiwaErrors.ErrInternal)
		}

		return provider, nil

	default:
		return nil, kaiwaErrors.InvalidInput(fmt.Sprintf("unknown provider type: %s", entry.Provider))
	}
}
