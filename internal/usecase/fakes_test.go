package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
	"financial-document-analyzer/internal/infra/tools"
)

// ---- Fakes ----

// scriptedAI returns replies in order; the last one repeats. A nil replies
// slice echoes a fixed answer.
type scriptedAI struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   []adapter.ChatRequest
}

func (s *scriptedAI) ListModels(ctx context.Context) ([]string, error) { return []string{"stub"}, nil }

func (s *scriptedAI) Chat(ctx context.Context, req adapter.ChatRequest) (adapter.ChatResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.err != nil {
		return adapter.ChatResponse{}, s.err
	}
	if len(s.replies) == 0 {
		return adapter.ChatResponse{Text: "analysis ok"}, nil
	}
	i := len(s.calls) - 1
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return adapter.ChatResponse{Text: s.replies[i]}, nil
}

func (s *scriptedAI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *scriptedAI) lastUserPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ""
	}
	msgs := s.calls[len(s.calls)-1].Messages
	return msgs[len(msgs)-1].Content
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(ctx context.Context, path string) (string, error) {
	if f.text == "" && f.err == nil {
		return domain.NotFoundText(path), nil
	}
	return f.text, f.err
}

type fakeInspector struct{}

func (fakeInspector) PageCount(ctx context.Context, path string) (int, error) { return 1, nil }

func newRegistry(text string) *tools.Registry {
	return tools.Default(fakeExtractor{text: text}, fakeInspector{}, tools.Options{})
}

// recordingTool is a Tool that records the order it was run in.
type recordingTool struct {
	name, in, out string
	result        string
	order         *[]string
}

func (r recordingTool) Name() string        { return r.name }
func (r recordingTool) Description() string { return r.name }
func (r recordingTool) Input() string       { return r.in }
func (r recordingTool) Output() string      { return r.out }
func (r recordingTool) Run(ctx context.Context, in string) (string, error) {
	*r.order = append(*r.order, r.name)
	return r.result, nil
}

// runeCounter counts one token per rune.
type runeCounter struct{}

func (runeCounter) CountTokens(model, text string) int { return len([]rune(text)) }

// memStore is an in-memory DocumentStore.
type memStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	saveErr   error
	removeErr error
	removed   int
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (m *memStore) Save(ctx context.Context, r io.Reader, name string) (*model.Document, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	path := "mem/financial_document_" + name
	m.files[path] = b
	return &model.Document{ID: name, Path: path, OriginalName: name, Size: int64(len(b)), CreatedAt: time.Now()}, nil
}

func (m *memStore) Remove(ctx context.Context, doc *model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed++
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.files, doc.Path)
	return nil
}

func (m *memStore) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, errors.New("not implemented")
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}
