// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"financial-document-analyzer/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*GeminiAdapter)(nil)

type GeminiAdapter struct {
	client       *genai.Client
	provider     string
	defaultModel string
}

// NewGeminiAdapter creates a Gemini API adapter using the official SDK.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiAdapter{client: c, provider: ProviderGemini, defaultModel: defaultModel}, nil
}

// NewVertexAdapter talks to the same models through Vertex AI with ADC credentials.
func NewVertexAdapter(ctx context.Context, project, location, defaultModel string) (*GeminiAdapter, error) {
	if project == "" {
		return nil, errors.New("vertex: empty project")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex: new client: %w", err)
	}
	return &GeminiAdapter{client: c, provider: ProviderVertex, defaultModel: defaultModel}, nil
}

func (g *GeminiAdapter) ListModels(ctx context.Context) ([]string, error) {
	var out []string
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return out, err
		}
		if m.Name != "" {
			out = append(out, m.Name)
		}
	}
	if len(out) == 0 && g.defaultModel != "" {
		out = []string{g.defaultModel}
	}
	return out, nil
}

func (g *GeminiAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatResponse, error) {
	system, contents := toGenAIContents(req.Messages)
	if len(contents) == 0 {
		return adapter.ChatResponse{}, fmt.Errorf("%s: no messages", g.provider)
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelOrDefault(req.Model, g.defaultModel), contents, cfg)
	if err != nil {
		return adapter.ChatResponse{}, fmt.Errorf("%s: generate content: %w", g.provider, err)
	}

	out := adapter.ChatResponse{Provider: g.provider}
	if resp != nil {
		out.Text = resp.Text()
		if resp.UsageMetadata != nil {
			out.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
			out.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			out.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
		}
	}
	return out, nil
}

// toGenAIContents splits system messages out into the system instruction;
// Gemini has no system role in the content history.
func toGenAIContents(msgs []adapter.Message) (string, []*genai.Content) {
	var system []string
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case "system":
			system = append(system, m.Content)
			continue
		case "assistant", "model":
			role = genai.RoleModel
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return strings.Join(system, "\n\n"), out
}

func modelOrDefault(model, def string) string {
	if strings.TrimSpace(model) != "" {
		return model
	}
	return def
}
