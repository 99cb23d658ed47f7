package tools

import (
	"context"
	"fmt"

	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
)

type documentInspector struct {
	inspector adapter.DocumentInspector
}

// NewDocumentInspector reports page count; inspection failures are rendered
// as text so they never fail a run.
func NewDocumentInspector(inspector adapter.DocumentInspector) adapter.Tool {
	return &documentInspector{inspector: inspector}
}

func (d *documentInspector) Name() string { return DocumentInspectorName }
func (d *documentInspector) Description() string {
	return "Reports structural metadata (page count) of the uploaded PDF."
}
func (d *documentInspector) Input() string  { return model.KeyFilePath }
func (d *documentInspector) Output() string { return "" }

func (d *documentInspector) Run(ctx context.Context, path string) (string, error) {
	n, err := d.inspector.PageCount(ctx, path)
	if err != nil {
		return "Unable to inspect document: " + err.Error(), nil
	}
	return fmt.Sprintf("Pages: %d", n), nil
}
