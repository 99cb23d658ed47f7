package ai

import (
	"time"

	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/domain/ports/adapter"
)

// NewResilientAI stacks the call wrappers in their serving order: retry outside
// the concurrency limit, so a call sleeping in backoff holds no slot, and
// metrics innermost, so latency excludes the wait for a slot.
func NewResilientAI(inner adapter.AIServiceAdapter, maxConcurrent, maxRetries int, backoff time.Duration, logger *zerolog.Logger) adapter.AIServiceAdapter {
	ai := NewObservedAI(inner)
	ai = NewLimitedAI(ai, maxConcurrent)
	return NewRetryAI(ai, maxRetries, backoff, logger)
}
