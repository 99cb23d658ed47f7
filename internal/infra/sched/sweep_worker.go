package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/domain/ports/adapter"
	"financial-document-analyzer/internal/infra/metrics"
)

// SweepWorker periodically removes uploads that outlived their run, e.g.
// after a crash between persisting and cleanup.
type SweepWorker struct {
	interval time.Duration
	maxAge   time.Duration
	store    adapter.DocumentStore
	log      *zerolog.Logger
	now      func() time.Time
}

func NewSweepWorker(interval, maxAge time.Duration, store adapter.DocumentStore, logger *zerolog.Logger) *SweepWorker {
	sweepLog := logger.With().Str("component", "SweepWorker").Logger()
	return &SweepWorker{
		interval: interval,
		maxAge:   maxAge,
		store:    store,
		log:      &sweepLog,
		now:      time.Now,
	}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Dur("max_age", w.maxAge).Msg("Starting sweep worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping sweep worker")
			return ctx.Err()
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single pass and returns the number of removed files.
func (w *SweepWorker) SweepOnce(ctx context.Context) int {
	n, err := w.store.Sweep(ctx, w.now().Add(-w.maxAge))
	if err != nil {
		w.log.Error().Err(err).Msg("sweep worker error")
	}
	if n > 0 {
		metrics.AddSweptFiles(n)
		w.log.Info().Int("count", n).Msg("stale uploads removed")
	}
	return n
}
