package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/ports/adapter"
)

var _ adapter.DocumentExtractor = (*Extractor)(nil)

type Extractor struct {
	log *zerolog.Logger
}

func NewExtractor(logger *zerolog.Logger) *Extractor {
	l := logger.With().Str("component", "PDFExtractor").Logger()
	return &Extractor{log: &l}
}

// Extract concatenates the plain text of every page, each followed by a single
// line break. Runs of blank lines are collapsed so the result never holds "\n\n".
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NotFoundText(path), nil
		}
		return "", fmt.Errorf("stat document: %w", err)
	}

	f, r, err := lpdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		content := ""
		if !p.V.IsNull() {
			content, err = p.GetPlainText(nil)
			if err != nil {
				e.log.Warn().Err(err).Int("page", i).Str("path", path).Msg("page text unavailable")
				content = ""
			}
		}
		sb.WriteString(strings.TrimRight(collapseNewlines(content), "\n"))
		sb.WriteString("\n")
	}
	e.log.Debug().Int("pages", pages).Int("chars", sb.Len()).Msg("document extracted")
	return collapseNewlines(sb.String()), nil
}

func collapseNewlines(s string) string {
	for strings.Contains(s, "\n\n") {
		s = strings.ReplaceAll(s, "\n\n", "\n")
	}
	return s
}
