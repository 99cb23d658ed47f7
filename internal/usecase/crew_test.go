package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"financial-document-analyzer/internal/config"
	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/model"
	aiadapter "financial-document-analyzer/internal/infra/adapters/ai"
	"financial-document-analyzer/internal/infra/logging"
	"financial-document-analyzer/internal/infra/tools"
)

func newTestCrew(t *testing.T, tasks []string, ai *scriptedAI, reg *tools.Registry, opts CrewOptions) *Crew {
	t.Helper()
	factory := func(a *model.Agent) TaskExecutor {
		return NewLLMAgent(a, reg, ai, nil, 0, logging.Nop())
	}
	opts.Tools = reg
	c, err := NewCrew(NewRoster(testLLM()), tasks, factory, opts, logging.Nop())
	if err != nil {
		t.Fatalf("NewCrew: %v", err)
	}
	return c
}

func TestNewCrew_Validation(t *testing.T) {
	factory := func(a *model.Agent) TaskExecutor { return nil }
	roster := NewRoster(testLLM())

	if _, err := NewCrew(roster, []string{"summarize"}, factory, CrewOptions{}, logging.Nop()); !errors.Is(err, domain.ErrUnknownTask) {
		t.Fatalf("want ErrUnknownTask, got %v", err)
	}
	if _, err := NewCrew(roster, nil, factory, CrewOptions{}, logging.Nop()); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	noTools, _ := tools.NewRegistry(tools.NewRiskTool())
	_, err := NewCrew(roster, []string{TaskFinancialAnalysis}, factory, CrewOptions{Tools: noTools}, logging.Nop())
	if !errors.Is(err, domain.ErrUnknownTool) {
		t.Fatalf("want ErrUnknownTool, got %v", err)
	}
	c, err := NewCrew(roster, FullChain, factory, CrewOptions{}, logging.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(c.TaskNames(), ",") != strings.Join(FullChain, ",") {
		t.Fatalf("task order = %v", c.TaskNames())
	}
}

func TestCrew_DeterministicStub(t *testing.T) {
	noop := aiadapter.NewNoopAIAdapter(logging.Nop())
	reg := newRegistry("Revenue: $100,000\nNet income: $20,000\n")
	factory := func(a *model.Agent) TaskExecutor { return NewLLMAgent(a, reg, noop, nil, 0, logging.Nop()) }
	c, err := NewCrew(NewRoster(testLLM()), FullChain, factory, CrewOptions{Tools: reg}, logging.Nop())
	if err != nil {
		t.Fatal(err)
	}

	first, err := c.Run(context.Background(), "ACME outlook", "data/a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Run(context.Background(), "ACME outlook", "data/a.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if first != second || first == "" {
		t.Fatalf("runs differ:\n%q\n%q", first, second)
	}
}

func TestCrew_FullChainFeedsPriorOutputs(t *testing.T) {
	ai := &scriptedAI{replies: []string{"verified", "analysis", "invest", "risks"}}
	c := newTestCrew(t, FullChain, ai, newRegistry("Revenue: $1"), CrewOptions{})

	run, err := c.Execute(context.Background(), "q", "p")
	if err != nil {
		t.Fatal(err)
	}
	if run.Status != model.RunStatusSucceeded || run.Result() != "risks" || len(run.Outputs) != 4 {
		t.Fatalf("run = %+v", run)
	}
	if run.Outputs[1].Agent != AgentFinancialAnalyst {
		t.Fatalf("agent = %s", run.Outputs[1].Agent)
	}
	last := ai.lastUserPrompt()
	for _, want := range []string{"[verification]\nverified", "[financial_analysis]\nanalysis", "[investment_analysis]\ninvest"} {
		if !strings.Contains(last, want) {
			t.Errorf("risk prompt missing %q", want)
		}
	}
	if !strings.Contains(last, "["+tools.RiskName+"]\n"+tools.RiskPlaceholder) {
		t.Error("risk tool output missing from prompt")
	}
}

func TestCrew_DefaultQuery(t *testing.T) {
	ai := &scriptedAI{}
	c := newTestCrew(t, []string{TaskFinancialAnalysis}, ai, newRegistry("x"), CrewOptions{})
	if _, err := c.Run(context.Background(), "   ", "p"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(ai.lastUserPrompt(), "User query: "+config.DefaultQuery) {
		t.Fatalf("default query not applied:\n%s", ai.lastUserPrompt())
	}
	if got := c.NormalizeQuery("  revenue?  "); got != "revenue?" {
		t.Fatalf("NormalizeQuery = %q", got)
	}
}

func TestCrew_FailureIsAtomic(t *testing.T) {
	ai := &scriptedAI{replies: []string{"verified", ""}}
	c := newTestCrew(t, FullChain, ai, newRegistry("x"), CrewOptions{})

	out, err := c.Run(context.Background(), "q", "p")
	if !errors.Is(err, domain.ErrPipelineFailed) || !errors.Is(err, domain.ErrEmptyAnswer) {
		t.Fatalf("err = %v", err)
	}
	if out != "" {
		t.Fatalf("partial output returned: %q", out)
	}
	if !strings.Contains(err.Error(), TaskFinancialAnalysis) {
		t.Fatalf("error does not name the task: %v", err)
	}
	// verification once, financial_analysis twice (MaxIter), nothing after
	if ai.callCount() != 3 {
		t.Fatalf("calls = %d", ai.callCount())
	}
}

func TestCrew_MissingDocumentFailsRun(t *testing.T) {
	ai := &scriptedAI{}
	c := newTestCrew(t, []string{TaskFinancialAnalysis}, ai, newRegistry(""), CrewOptions{})
	_, err := c.Run(context.Background(), "q", "data/gone.pdf")
	if !errors.Is(err, domain.ErrPipelineFailed) || !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
	if ai.callCount() != 0 {
		t.Fatal("llm called for a missing document")
	}
}

type blockingExecutor struct{}

func (blockingExecutor) Execute(ctx context.Context, task *model.Task, rc *model.RunContext) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestCrew_Timeout(t *testing.T) {
	factory := func(a *model.Agent) TaskExecutor { return blockingExecutor{} }
	c, err := NewCrew(NewRoster(testLLM()), []string{TaskFinancialAnalysis}, factory, CrewOptions{Timeout: 20 * time.Millisecond}, logging.Nop())
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Run(context.Background(), "q", "p")
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, domain.ErrPipelineFailed) {
		t.Fatalf("err = %v", err)
	}
}
