package tools

import (
	"context"

	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
)

type documentReader struct {
	extractor adapter.DocumentExtractor
}

func NewDocumentReader(extractor adapter.DocumentExtractor) adapter.Tool {
	return &documentReader{extractor: extractor}
}

func (d *documentReader) Name() string { return DocumentReaderName }
func (d *documentReader) Description() string {
	return "Reads a financial PDF document and returns extracted text."
}
func (d *documentReader) Input() string  { return model.KeyFilePath }
func (d *documentReader) Output() string { return model.KeyDocumentText }

func (d *documentReader) Run(ctx context.Context, path string) (string, error) {
	return d.extractor.Extract(ctx, path)
}
