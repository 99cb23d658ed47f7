// Package storage keeps uploaded documents on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
	"financial-document-analyzer/internal/infra/metrics"
)

// Compile-time check
var _ adapter.DocumentStore = (*localStore)(nil)

const (
	filePrefix = "financial_document_"
	fileExt    = ".pdf"
)

type localStore struct {
	baseDir string
	newID   func() string

	mu   sync.Mutex
	live map[string]struct{} // saved and not yet removed; never swept
}

// NewLocalStore stores documents under baseDir. The directory is created on
// demand, so it may be removed while the service runs.
func NewLocalStore(baseDir string) (*localStore, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("baseDir is empty")
	}
	return &localStore{baseDir: baseDir, newID: uuid.NewString, live: map[string]struct{}{}}, nil
}

func (s *localStore) Save(ctx context.Context, r io.Reader, originalName string) (*model.Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	id := s.newID()
	fullPath := filepath.Join(s.baseDir, filePrefix+id+fileExt)
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return nil, fmt.Errorf("write file: %w", err)
	}
	metrics.ObserveUpload(written)
	s.mu.Lock()
	s.live[fullPath] = struct{}{}
	s.mu.Unlock()

	return &model.Document{
		ID:           id,
		Path:         fullPath,
		OriginalName: originalName,
		Size:         written,
		CreatedAt:    time.Now(),
	}, nil
}

// Remove deletes the stored file. Removing an already missing file is not an error.
// A failed removal hands the file over to Sweep.
func (s *localStore) Remove(_ context.Context, doc *model.Document) error {
	if doc == nil {
		return nil
	}
	s.mu.Lock()
	delete(s.live, doc.Path)
	s.mu.Unlock()
	if err := os.Remove(doc.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Sweep deletes leaked uploads. Only files matching the upload name pattern are
// touched, and documents still owned by a run are skipped whatever their age.
func (s *localStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read dir: %w", err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		full := filepath.Join(s.baseDir, name)
		if s.isLive(full) {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

func (s *localStore) isLive(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.live[path]
	return ok
}
