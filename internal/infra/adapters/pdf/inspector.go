package pdf

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"financial-document-analyzer/internal/domain/ports/adapter"
)

var _ adapter.DocumentInspector = (*Inspector)(nil)

// Inspector reads structural metadata with pdfcpu.
type Inspector struct{}

func NewInspector() *Inspector { return &Inspector{} }

func (i *Inspector) PageCount(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return n, nil
}
