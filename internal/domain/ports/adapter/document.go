package adapter

import "context"

// DocumentExtractor returns the text content of a document on disk.
// A missing file yields a sentinel string rather than an error.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// DocumentInspector reports structural metadata of a document.
type DocumentInspector interface {
	PageCount(ctx context.Context, path string) (int, error)
}
