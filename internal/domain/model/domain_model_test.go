//go:build !integration

package model

import (
	"errors"
	"strings"
	"testing"

	"financial-document-analyzer/internal/domain"
)

// --- PipelineRun Tests ---

func TestPipelineRun_HappyPath(t *testing.T) {
	run := NewPipelineRun("01HZX", []string{"verification", "financial_analysis"})
	if run.Status != RunStatusPending || run.Current != -1 || run.CurrentTask() != "" {
		t.Fatalf("unexpected initial state: %+v", run)
	}

	if err := run.Advance(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if run.Status != RunStatusRunning || run.CurrentTask() != "verification" {
		t.Fatalf("expected running[verification], got %s[%s]", run.Status, run.CurrentTask())
	}
	if err := run.Record(TaskResult{Task: "verification", Output: "valid"}); err != nil {
		t.Fatal(err)
	}
	if err := run.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := run.Record(TaskResult{Task: "financial_analysis", Output: "report"}); err != nil {
		t.Fatal(err)
	}
	if err := run.Succeed(); err != nil {
		t.Fatalf("succeed: %v", err)
	}
	if run.Status != RunStatusSucceeded || run.Result() != "report" {
		t.Errorf("expected succeeded with last output, got %s %q", run.Status, run.Result())
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Error("finished before started")
	}
}

func TestPipelineRun_IllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		step func(r *PipelineRun) error
	}{
		{"succeed while pending", func(r *PipelineRun) error { return r.Succeed() }},
		{"record while pending", func(r *PipelineRun) error { return r.Record(TaskResult{}) }},
		{"fail while pending", func(r *PipelineRun) error { return r.Fail(errors.New("x")) }},
		{"advance without result", func(r *PipelineRun) error {
			_ = r.Advance()
			return r.Advance()
		}},
		{"succeed with missing results", func(r *PipelineRun) error {
			_ = r.Advance()
			_ = r.Record(TaskResult{Task: "a"})
			return r.Succeed()
		}},
		{"record twice", func(r *PipelineRun) error {
			_ = r.Advance()
			_ = r.Record(TaskResult{Task: "a"})
			return r.Record(TaskResult{Task: "a"})
		}},
		{"advance past last task", func(r *PipelineRun) error {
			_ = r.Advance()
			_ = r.Record(TaskResult{Task: "a"})
			_ = r.Advance()
			_ = r.Record(TaskResult{Task: "b"})
			return r.Advance()
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewPipelineRun("id", []string{"a", "b"})
			if err := tc.step(r); !errors.Is(err, domain.ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
		})
	}
}

func TestPipelineRun_FailIsTerminal(t *testing.T) {
	r := NewPipelineRun("id", []string{"a"})
	_ = r.Advance()
	cause := errors.New("llm down")
	if err := r.Fail(cause); err != nil {
		t.Fatal(err)
	}
	if r.Status != RunStatusFailed || !errors.Is(r.Err, cause) {
		t.Fatalf("run = %+v", r)
	}
	if err := r.Advance(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("advance after fail: %v", err)
	}
	if r.Result() != "" {
		t.Errorf("failed run exposes output %q", r.Result())
	}
}

func TestPipelineRun_EmptyTaskList(t *testing.T) {
	if err := NewPipelineRun("id", nil).Advance(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

// --- RunContext Tests ---

func TestRunContext(t *testing.T) {
	rc := NewRunContext("q", "data/f.pdf")
	rc.Set(KeyDocumentText, "text")
	rc.Set(TaskKey("verification"), "ok")
	rc.Set(KeyQuery, "q2")

	if got := strings.Join(rc.Keys(), ","); got != "query,file_path,document_text,task:verification" {
		t.Errorf("insertion order = %s", got)
	}
	if rc.Value(KeyQuery) != "q2" {
		t.Errorf("overwrite not applied")
	}
	if _, ok := rc.Get("missing"); ok || rc.Value("missing") != "" {
		t.Error("missing key reported present")
	}
}

func TestAgentSystemPrompt(t *testing.T) {
	a := &Agent{Role: "Investment Advisor", Goal: "Advise.", Backstory: "Seasoned."}
	if got := a.SystemPrompt(); got != "You are Investment Advisor. Seasoned.\nYour personal goal is: Advise." {
		t.Fatalf("got %q", got)
	}
}
