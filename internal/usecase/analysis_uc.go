// File: internal/usecase/analysis_uc.go
package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
	"financial-document-analyzer/internal/infra/logging"
	"financial-document-analyzer/internal/infra/metrics"
)

// Compile-time check
var _ AnalysisUseCase = (*analysisUC)(nil)

type AnalysisUseCase interface {
	Analyze(ctx context.Context, r io.Reader, filename, query string) (*model.AnalysisResult, error)
}

// Pipeline is the part of Crew the ingestion flow depends on.
type Pipeline interface {
	NormalizeQuery(q string) string
	Run(ctx context.Context, query, filePath string) (string, error)
}

type analysisUC struct {
	store    adapter.DocumentStore
	pipeline Pipeline
	logger   *zerolog.Logger
}

func NewAnalysisUseCase(store adapter.DocumentStore, pipeline Pipeline, logger *zerolog.Logger) *analysisUC {
	l := logger.With().Str("component", "analysis").Logger()
	return &analysisUC{store: store, pipeline: pipeline, logger: &l}
}

// Analyze persists the upload, runs the pipeline over it and removes the file
// on every exit path.
func (a *analysisUC) Analyze(ctx context.Context, r io.Reader, filename, query string) (*model.AnalysisResult, error) {
	log := logging.With(ctx, a.logger)

	doc, err := a.store.Save(ctx, r, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	defer a.release(ctx, doc)
	log.Debug().Str("path", doc.Path).Int64("size", doc.Size).Str("file", filename).Msg("document stored")

	q := a.pipeline.NormalizeQuery(query)
	analysis, err := a.pipeline.Run(ctx, q, doc.Path)
	if err != nil {
		return nil, err
	}

	// the caller's query is echoed as sent; only a blank one reports the default
	echo := query
	if strings.TrimSpace(query) == "" {
		echo = q
	}
	return &model.AnalysisResult{
		Status:        model.AnalysisStatusSuccess,
		Query:         echo,
		Analysis:      analysis,
		FileProcessed: filename,
	}, nil
}

func (a *analysisUC) release(ctx context.Context, doc *model.Document) {
	// cleanup must run even when the request context is already done
	if err := a.store.Remove(context.WithoutCancel(ctx), doc); err != nil {
		metrics.IncCleanupFailure()
		logging.With(ctx, a.logger).Warn().Err(err).Str("path", doc.Path).Msg("remove uploaded document")
	}
}
