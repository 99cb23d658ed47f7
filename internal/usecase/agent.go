package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
	"financial-document-analyzer/internal/infra/logging"
	"financial-document-analyzer/internal/infra/tools"
)

// Compile-time check
var _ TaskExecutor = (*LLMAgent)(nil)

// TaskExecutor performs one task against the accumulated run context.
type TaskExecutor interface {
	Execute(ctx context.Context, task *model.Task, rc *model.RunContext) (string, error)
}

// ToolResolver looks tools up by name.
type ToolResolver interface {
	Get(name string) (adapter.Tool, error)
}

// LLMAgent runs its tools deterministically, then asks the LLM for the answer.
type LLMAgent struct {
	agent     *model.Agent
	tools     ToolResolver
	ai        adapter.AIServiceAdapter
	counter   adapter.TokenCounter
	maxTokens int
	logger    *zerolog.Logger
}

// NewLLMAgent wires an agent definition to its collaborators. counter may be
// nil when maxPromptTokens is 0.
func NewLLMAgent(agent *model.Agent, tools ToolResolver, ai adapter.AIServiceAdapter, counter adapter.TokenCounter, maxPromptTokens int, logger *zerolog.Logger) *LLMAgent {
	l := logger.With().Str("component", "agent").Str("agent", agent.Name).Logger()
	return &LLMAgent{
		agent:     agent,
		tools:     tools,
		ai:        ai,
		counter:   counter,
		maxTokens: maxPromptTokens,
		logger:    &l,
	}
}

type toolResult struct {
	name        string
	description string
	output      string
}

func (a *LLMAgent) Execute(ctx context.Context, task *model.Task, rc *model.RunContext) (string, error) {
	log := logging.With(ctx, a.logger)
	defer logging.TraceDuration(log, "LLMAgent.Execute")()

	ts, err := a.resolveTools(task)
	if err != nil {
		return "", err
	}

	results := make([]toolResult, 0, len(ts))
	for _, t := range ts {
		in := rc.Value(t.Input())
		out, err := t.Run(ctx, in)
		if err != nil {
			return "", fmt.Errorf("tool %s: %w", t.Name(), err)
		}
		if t.Name() == tools.DocumentReaderName && out == domain.NotFoundText(in) {
			return "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, in)
		}
		if t.Output() != "" {
			rc.Set(t.Output(), out)
		}
		log.Debug().Str("tool", t.Name()).Int("len", len(out)).Msg("tool finished")
		results = append(results, toolResult{name: t.Name(), description: t.Description(), output: out})
	}

	a.fitBudget(task, rc, results)
	req := adapter.ChatRequest{
		Messages: []adapter.Message{
			{Role: "system", Content: a.agent.SystemPrompt()},
			{Role: "user", Content: buildUserPrompt(task, rc, results)},
		},
	}
	if a.agent.LLM != nil {
		req.Model = a.agent.LLM.Model
		req.Temperature = a.agent.LLM.Temperature
		req.MaxOutputTokens = a.agent.LLM.MaxOutputTokens
	}

	attempts := a.agent.MaxIter
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		resp, err := a.ai.Chat(ctx, req)
		if err != nil {
			return "", err
		}
		if answer := strings.TrimSpace(resp.Text); answer != "" {
			return answer, nil
		}
		log.Warn().Int("attempt", i+1).Msg("blank answer from llm")
	}
	return "", fmt.Errorf("%w after %d attempts", domain.ErrEmptyAnswer, attempts)
}

// resolveTools returns task tools followed by the agent's own tools, without duplicates.
func (a *LLMAgent) resolveTools(task *model.Task) ([]adapter.Tool, error) {
	seen := map[string]bool{}
	var out []adapter.Tool
	for _, group := range [][]string{task.Tools, a.agent.Tools} {
		for _, name := range group {
			if seen[name] {
				continue
			}
			seen[name] = true
			t, err := a.tools.Get(name)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
	}
	return out, nil
}

// fitBudget truncates tool outputs until the user prompt fits maxTokens.
// Each tool gets an equal share of what the fixed parts leave over.
func (a *LLMAgent) fitBudget(task *model.Task, rc *model.RunContext, results []toolResult) {
	if a.maxTokens <= 0 || a.counter == nil || len(results) == 0 {
		return
	}
	mdl := ""
	if a.agent.LLM != nil {
		mdl = a.agent.LLM.Model
	}
	if a.counter.CountTokens(mdl, buildUserPrompt(task, rc, results)) <= a.maxTokens {
		return
	}
	empty := make([]toolResult, len(results))
	for i, r := range results {
		empty[i] = toolResult{name: r.name, description: r.description}
	}
	share := (a.maxTokens - a.counter.CountTokens(mdl, buildUserPrompt(task, rc, empty))) / len(results)
	if share < 0 {
		share = 0
	}
	for i := range results {
		results[i].output = truncateTokens(a.counter, mdl, results[i].output, share)
	}
	a.logger.Debug().Int("budget", a.maxTokens).Int("share", share).Msg("tool output truncated")
}

// truncateTokens returns the longest rune prefix of s counting at most limit tokens.
func truncateTokens(c adapter.TokenCounter, mdl, s string, limit int) string {
	if c.CountTokens(mdl, s) <= limit {
		return s
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.CountTokens(mdl, string(runes[:mid])) <= limit {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}

func buildUserPrompt(task *model.Task, rc *model.RunContext, results []toolResult) string {
	var b strings.Builder
	b.WriteString("Task: ")
	b.WriteString(task.Description)
	b.WriteString("\n\nUser query: ")
	b.WriteString(rc.Value(model.KeyQuery))
	b.WriteString("\n\nExpected output: ")
	b.WriteString(task.ExpectedOutput)

	if len(results) > 0 {
		b.WriteString("\n\nTools used:")
		for _, r := range results {
			fmt.Fprintf(&b, "\n- %s: %s", r.name, r.description)
		}
		b.WriteString("\n\nTool results:")
		for _, r := range results {
			fmt.Fprintf(&b, "\n[%s]\n%s", r.name, r.output)
		}
	}

	var prior []string
	for _, k := range rc.Keys() {
		if strings.HasPrefix(k, model.TaskKey("")) {
			prior = append(prior, k)
		}
	}
	if len(prior) > 0 {
		b.WriteString("\n\nPrevious task outputs:")
		for _, k := range prior {
			fmt.Fprintf(&b, "\n[%s]\n%s", strings.TrimPrefix(k, model.TaskKey("")), rc.Value(k))
		}
	}
	return b.String()
}
