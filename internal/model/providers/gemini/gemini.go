package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaiwahq/kaiwa/internal/conversation"
	"github.com/kaiwahq/kaiwa/internal/model/contract"

	"google.golang.org/genai"
)

type Provider struct {
	client *genai.Client
}

func New(apiKey string) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Provider{client: client}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

// BuildContents translates a conversation into Gemini content values:
// assistant turns become role "model" with text and FunctionCall parts, tool
// turns become role "function" carrying FunctionResponse parts.
func BuildContents(conv conversation.Conversation) []*genai.Content {
	var contents []*genai.Content
	for _, m := range conv {
		switch m.Role {
		case conversation.RoleTool:
			var parts []*genai.Part
			for _, r := range m.ToolResults() {
				var obj map[string]any
				if err := json.Unmarshal([]byte(r.Output), &obj); err != nil {
					obj = map[string]any{"output": r.Output}
				}
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{ID: r.ToolCallID, Name: r.ToolCallID, Response: obj}})
			}
			contents = append(contents, &genai.Content{Role: "function", Parts: parts})
		case conversation.RoleAssistant:
			var parts []*genai.Part
			for _, part := range m.Parts {
				switch p := part.(type) {
				case conversation.TextPart:
					parts = append(parts, &genai.Part{Text: p.Text})
				case conversation.ToolCallPart:
					var args map[string]any
					_ = json.Unmarshal([]byte(p.Input), &args)
					parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{ID: p.ID, Name: p.Name, Args: args}})
				}
			}
			contents = append(contents, &genai.Content{Role: "model", Parts: parts})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{{Text: m.JoinedText()}}})
		}
	}
	return contents
}

func (p *Provider) Generate(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error) {
	contents := BuildContents(req.Conversation)

	var tools []*genai.Tool
	if len(req.Tools) > 0 {
		var decls []*genai.FunctionDeclaration
		for _, t := range req.Tools {
			b, _ := json.Marshal(t.Parameters)
			var schema genai.Schema
			_ = json.Unmarshal(b, &schema)
			decls = append(decls, &genai.FunctionDeclaration{Name: t.Name, Description: t.Description, Parameters: &schema})
		}
		tools = append(tools, &genai.Tool{FunctionDeclarations: decls})
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, &genai.GenerateContentConfig{Tools: tools})
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	out := &contract.CompletionResponse{}
	if resp == nil {
		return out, nil
	}

	for _, fc := range resp.FunctionCalls() {
		argsJSON, _ := json.Marshal(fc.Args)
		id := fc.ID
		if id == "" {
			id = fc.Name
		}
		out.ToolCalls = append(out.ToolCalls, &contract.ToolCall{ID: id, Name: fc.Name, Input: string(argsJSON)})
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				out.Content += part.Text
			}
		}
	}

	return out, nil
}
