package ai

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev testing.
// It logs requests instead of calling a provider and answers deterministically.
type NoopAIAdapter struct {
	log *zerolog.Logger
}

func NewNoopAIAdapter(logger *zerolog.Logger) *NoopAIAdapter {
	l := logger.With().Str("component", "NoopAI").Logger()
	return &NoopAIAdapter{log: &l}
}

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-ai-model"}, nil
}

func (a *NoopAIAdapter) Chat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return adapter.ChatResponse{}, err
	}
	h := fnv.New64a()
	n := 0
	for _, m := range req.Messages {
		_, _ = h.Write([]byte(m.Role))
		_, _ = h.Write([]byte(m.Content))
		n += len(m.Content)
	}
	a.log.Debug().Str("model", req.Model).Int("messages", len(req.Messages)).Int("chars", n).Msg("noop chat")
	return adapter.ChatResponse{
		Text:     fmt.Sprintf("[noop analysis %016x] received %d message(s), %d characters of context.", h.Sum64(), len(req.Messages), n),
		Provider: ProviderNoop,
	}, nil
}
