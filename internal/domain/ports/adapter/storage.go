package adapter

import (
	"context"
	"io"
	"time"

	"financial-document-analyzer/internal/domain/model"
)

// DocumentStore persists uploads for the lifetime of one run.
type DocumentStore interface {
	Save(ctx context.Context, r io.Reader, originalName string) (*model.Document, error)
	Remove(ctx context.Context, doc *model.Document) error
	// Sweep removes stored documents last modified before cutoff, except those
	// saved and not yet removed through this store.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}
