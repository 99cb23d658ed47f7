package ai

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/domain/ports/adapter"
	"financial-document-analyzer/internal/infra/metrics"
)

var _ adapter.AIServiceAdapter = (*retryAI)(nil)

type retryAI struct {
	inner      adapter.AIServiceAdapter
	maxRetries int
	backoff    time.Duration
	log        *zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewRetryAI retries failed Chat calls up to maxRetries times with exponential
// backoff starting at backoff. maxRetries <= 0 returns inner unchanged.
func NewRetryAI(inner adapter.AIServiceAdapter, maxRetries int, backoff time.Duration, logger *zerolog.Logger) adapter.AIServiceAdapter {
	if maxRetries <= 0 {
		return inner
	}
	l := logger.With().Str("component", "RetryAI").Logger()
	return &retryAI{inner: inner, maxRetries: maxRetries, backoff: backoff, log: &l, sleep: sleepCtx}
}

func (r *retryAI) ListModels(ctx context.Context) ([]string, error) {
	return r.inner.ListModels(ctx)
}

func (r *retryAI) Chat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatResponse, error) {
	wait := r.backoff
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.IncAIRetry(req.Model)
			r.log.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", wait).Str("model", req.Model).Msg("retrying ai call")
			if err := r.sleep(ctx, wait); err != nil {
				return adapter.ChatResponse{}, lastErr
			}
			wait *= 2
		}
		resp, err := r.inner.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return adapter.ChatResponse{}, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
