package ai_test

import (
	"context"
	"errors"
	"testing"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/ports/adapter"
	ai "financial-document-analyzer/internal/infra/adapters/ai"
)

type stubAI struct {
	name      string
	n         int
	lastModel string
}

func (s *stubAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{s.name + "-model"}, nil
}

func (s *stubAI) Chat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatResponse, error) {
	s.n++
	s.lastModel = req.Model
	return adapter.ChatResponse{Text: "ok", Usage: adapter.Usage{PromptTokens: 1, CompletionTokens: 1}}, nil
}

func TestRouting_Prefix_ExplicitMap_Heuristics_And_Fallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	open := &stubAI{name: "openai"}
	gem := &stubAI{name: "gemini"}

	m := ai.NewMultiAIAdapter(
		"openai",
		map[string]adapter.AIServiceAdapter{"openai": open, "gemini": gem},
		map[string]string{"custom-x": "gemini"},
	)

	// provider prefix is stripped before the call
	resp, _ := m.Chat(ctx, adapter.ChatRequest{Model: "gemini/gemini-1.5-flash"})
	if gem.n != 1 || gem.lastModel != "gemini-1.5-flash" {
		t.Fatalf("prefix should route to gemini with bare model, got n=%d model=%q", gem.n, gem.lastModel)
	}
	if resp.Provider != "gemini" {
		t.Fatalf("provider should be filled from routing, got %q", resp.Provider)
	}

	// explicit map wins
	_, _ = m.Chat(ctx, adapter.ChatRequest{Model: "custom-x"})
	if gem.n != 2 || open.n != 0 {
		t.Fatalf("explicit map should route to gemini, got open:%d gem:%d", open.n, gem.n)
	}

	// gpt-* -> openai
	_, _ = m.Chat(ctx, adapter.ChatRequest{Model: "gpt-4o-mini"})
	if open.n != 1 {
		t.Fatalf("heuristic gpt-* should go openai")
	}

	// unknown -> default provider (openai)
	_, _ = m.Chat(ctx, adapter.ChatRequest{Model: "unknown"})
	if open.n != 2 {
		t.Fatalf("unknown model should go to default provider (openai)")
	}
}

func TestRouting_GeminiFallsBackToVertex(t *testing.T) {
	vx := &stubAI{name: "vertex"}
	m := ai.NewMultiAIAdapter("vertex", map[string]adapter.AIServiceAdapter{"vertex": vx}, nil)

	p, model := m.Resolve("gemini-1.5-pro")
	if p != "vertex" || model != "gemini-1.5-pro" {
		t.Fatalf("Resolve = %q/%q", p, model)
	}
	if _, err := m.Chat(context.Background(), adapter.ChatRequest{Model: "gemini-1.5-pro"}); err != nil || vx.n != 1 {
		t.Fatalf("expected vertex call, err=%v n=%d", err, vx.n)
	}
}

func TestRouting_NoProviders(t *testing.T) {
	m := ai.NewMultiAIAdapter("openai", map[string]adapter.AIServiceAdapter{}, nil)
	_, err := m.Chat(context.Background(), adapter.ChatRequest{Model: "gpt-4o"})
	if !errors.Is(err, domain.ErrNoProvider) {
		t.Fatalf("want ErrNoProvider, got %v", err)
	}
}

func TestListModels_UnionSorted(t *testing.T) {
	m := ai.NewMultiAIAdapter(
		"openai",
		map[string]adapter.AIServiceAdapter{"openai": &stubAI{name: "openai"}, "gemini": &stubAI{name: "gemini"}},
		map[string]string{"custom-x": "gemini"},
	)
	got, err := m.ListModels(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"custom-x", "gemini-model", "openai-model"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

type namedModelsAI struct {
	stubAI
	names []string
}

func (n *namedModelsAI) ListModels(ctx context.Context) ([]string, error) { return n.names, nil }

func TestKnowsModel(t *testing.T) {
	m := ai.NewMultiAIAdapter(
		"gemini",
		map[string]adapter.AIServiceAdapter{
			"gemini": &namedModelsAI{names: []string{"models/gemini-1.5-flash"}},
			"openai": &stubAI{name: "openai"},
		},
		nil,
	)
	cases := []struct {
		model string
		want  bool
	}{
		{"gemini/gemini-1.5-flash", true},
		{"gemini-1.5-flash", true},
		{"openai-model", true},
		{"gemini/gemini-ultra", false},
	}
	for _, tc := range cases {
		got, err := m.KnowsModel(context.Background(), tc.model)
		if err != nil {
			t.Fatalf("%s: %v", tc.model, err)
		}
		if got != tc.want {
			t.Errorf("KnowsModel(%q) = %v, want %v", tc.model, got, tc.want)
		}
	}
}
