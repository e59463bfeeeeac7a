package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaiwahq/kaiwa/internal/conversation"
	"github.com/kaiwahq/kaiwa/internal/model/contract"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type Provider struct {
	client anthropic.Client
}

func New(apiKey string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return "anthropic"
}

// BuildMessages translates a conversation into Anthropic message params.
// Anthropic has no tool role: tool results travel as tool_result blocks
// inside a user message, and assistant tool calls become tool_use blocks.
func BuildMessages(conv conversation.Conversation) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, m := range conv {
		switch m.Role {
		case conversation.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			for _, part := range m.Parts {
				switch p := part.(type) {
				case conversation.TextPart:
					blocks = append(blocks, anthropic.NewTextBlock(p.Text))
				case conversation.ToolCallPart:
					blocks = append(blocks, anthropic.ContentBlockParamUnion{
						OfToolUse: &anthropic.ToolUseBlockParam{
							ID:    p.ID,
							Name:  p.Name,
							Input: decodeInput(p.Input),
						},
					})
				}
			}
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
		case conversation.RoleTool:
			var blocks []anthropic.ContentBlockParamUnion
			for _, part := range m.Parts {
				if r, ok := part.(conversation.ToolResultPart); ok {
					blocks = append(blocks, anthropic.NewToolResultBlock(r.ToolCallID, r.Output, false))
				}
			}
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		default:
			// system and user both travel as user turns, matching how the
			// API treats leading instructions when no system prompt is set.
			var blocks []anthropic.ContentBlockParamUnion
			for _, part := range m.Parts {
				switch p := part.(type) {
				case conversation.TextPart:
					blocks = append(blocks, anthropic.NewTextBlock(p.Text))
				case conversation.ToolResultPart:
					blocks = append(blocks, anthropic.NewToolResultBlock(p.ToolCallID, p.Output, false))
				}
			}
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		}
	}
	return messages
}

func decodeInput(input string) interface{} {
	if input == "" {
		return map[string]interface{}{}
	}
	var obj interface{}
	if err := json.Unmarshal([]byte(input), &obj); err != nil {
		return map[string]interface{}{"input": input}
	}
	return obj
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	messages := BuildMessages(req.Conversation)

	var tools []anthropic.ToolUnionParam
	for _, t := range req.Tools {
		tool := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{Properties: map[string]interface{}{}},
		}
		if t.Parameters != nil {
			if props, ok := t.Parameters["properties"].(map[string]interface{}); ok {
				tool.InputSchema = anthropic.ToolInputSchemaParam{Properties: props}
			}
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}

	modelName := req.Model
	if modelName == "" {
		modelName = string(anthropic.ModelClaude3_7SonnetLatest)
	}

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: 1024,
		Messages:  messages,
		Tools:     tools,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	resp := &contract.CompletionResponse{}
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Content += b.Text
		case anthropic.ToolUseBlock:
			inputJSON, _ := json.Marshal(b.Input)
			resp.ToolCalls = append(resp.ToolCalls, &contract.ToolCall{
				ID:    b.ID,
				Name:  b.Name,
				Input: string(inputJSON),
			})
		}
	}

	return resp, nil
}
