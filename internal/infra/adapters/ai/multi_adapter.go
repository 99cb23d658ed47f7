// File: internal/infra/adapters/ai/multi_adapter.go
package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/ports/adapter"
)

const (
	ProviderGemini = "gemini"
	ProviderVertex = "vertex"
	ProviderOpenAI = "openai"
	ProviderNoop   = "noop"
)

var _ adapter.AIServiceAdapter = (*MultiAIAdapter)(nil)

type MultiAIAdapter struct {
	defaultProvider string
	byProvider      map[string]adapter.AIServiceAdapter
	modelToProvider map[string]string // model -> provider
}

// NewMultiAIAdapter does not inject any default model; it only knows a default provider.
// Each provider adapter is responsible for its own default model.
func NewMultiAIAdapter(
	defaultProvider string,
	byProvider map[string]adapter.AIServiceAdapter,
	modelToProvider map[string]string,
) *MultiAIAdapter {
	return &MultiAIAdapter{
		defaultProvider: strings.ToLower(defaultProvider),
		byProvider:      byProvider,
		modelToProvider: modelToProvider,
	}
}

// Resolve maps a model identifier to (provider, bare model). Identifiers may
// carry a provider prefix such as "gemini/gemini-1.5-flash".
func (m *MultiAIAdapter) Resolve(model string) (string, string) {
	if i := strings.Index(model, "/"); i > 0 {
		prefix := strings.ToLower(model[:i])
		if _, ok := m.byProvider[prefix]; ok {
			return prefix, model[i+1:]
		}
	}
	if p := m.modelToProvider[model]; p != "" {
		return strings.ToLower(p), model
	}
	l := strings.ToLower(model)
	switch {
	case strings.HasPrefix(l, "gemini"):
		if _, ok := m.byProvider[ProviderGemini]; !ok {
			if _, ok := m.byProvider[ProviderVertex]; ok {
				return ProviderVertex, model
			}
		}
		return ProviderGemini, model
	case strings.HasPrefix(l, "gpt"), strings.HasPrefix(l, "o1"), strings.HasPrefix(l, "o3"):
		return ProviderOpenAI, model
	default:
		return m.defaultProvider, model
	}
}

func (m *MultiAIAdapter) pick(provider string) (string, adapter.AIServiceAdapter) {
	if a := m.byProvider[provider]; a != nil {
		return provider, a
	}
	if a := m.byProvider[m.defaultProvider]; a != nil {
		return m.defaultProvider, a
	}
	// last resort: first available, in a stable order
	names := make([]string, 0, len(m.byProvider))
	for name := range m.byProvider {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if a := m.byProvider[name]; a != nil {
			return name, a
		}
	}
	return "", nil
}

func (m *MultiAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(m.modelToProvider)+4)

	// 1) models explicitly mapped in config
	for model := range m.modelToProvider {
		if _, ok := seen[model]; !ok {
			seen[model] = struct{}{}
			out = append(out, model)
		}
	}

	// 2) union of each provider's ListModels (often returns their default)
	for _, a := range m.byProvider {
		list, _ := a.ListModels(ctx)
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// KnowsModel reports whether some provider lists model. Gemini reports names
// as "models/<name>", which also match.
func (m *MultiAIAdapter) KnowsModel(ctx context.Context, model string) (bool, error) {
	_, bare := m.Resolve(model)
	names, err := m.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == model || n == bare || strings.TrimPrefix(n, "models/") == bare {
			return true, nil
		}
	}
	return false, nil
}

func (m *MultiAIAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatResponse, error) {
	want, model := m.Resolve(req.Model)
	name, a := m.pick(want)
	if a == nil {
		return adapter.ChatResponse{}, fmt.Errorf("%w for model %q", domain.ErrNoProvider, req.Model)
	}
	req.Model = model
	resp, err := a.Chat(ctx, req)
	if resp.Provider == "" {
		resp.Provider = name
	}
	return resp, err
}
