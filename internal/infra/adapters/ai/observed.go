package ai

import (
	"context"
	"time"

	"financial-document-analyzer/internal/domain/ports/adapter"
	"financial-document-analyzer/internal/infra/metrics"
)

var _ adapter.AIServiceAdapter = (*observedAI)(nil)

type observedAI struct {
	inner adapter.AIServiceAdapter
}

// NewObservedAI records latency and token usage of every Chat call.
func NewObservedAI(inner adapter.AIServiceAdapter) adapter.AIServiceAdapter {
	return &observedAI{inner: inner}
}

func (o *observedAI) ListModels(ctx context.Context) ([]string, error) {
	return o.inner.ListModels(ctx)
}

func (o *observedAI) Chat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatResponse, error) {
	start := time.Now()
	resp, err := o.inner.Chat(ctx, req)
	metrics.ObserveChatUsage(resp.Provider, req.Model,
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens,
		time.Since(start).Milliseconds(), err == nil)
	return resp, err
}
