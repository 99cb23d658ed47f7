package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/config"
	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/infra/logging"
	"financial-document-analyzer/internal/infra/metrics"
)

// ExecutorFactory builds the executor for one agent definition.
type ExecutorFactory func(agent *model.Agent) TaskExecutor

type CrewOptions struct {
	// Tools, when set, is checked for every tool the configured tasks and agents name.
	Tools        ToolResolver
	DefaultQuery string
	Timeout      time.Duration
}

// Crew runs the configured tasks strictly in order. A Crew is immutable and
// safe for concurrent runs; each run owns its RunContext.
type Crew struct {
	tasks        []*model.Task
	executors    map[string]TaskExecutor // by agent name
	defaultQuery string
	timeout      time.Duration
	logger       *zerolog.Logger
	newID        func() string
}

func NewCrew(roster *Roster, taskNames []string, factory ExecutorFactory, opts CrewOptions, logger *zerolog.Logger) (*Crew, error) {
	if len(taskNames) == 0 {
		return nil, fmt.Errorf("%w: empty task list", domain.ErrInvalidArgument)
	}
	c := &Crew{
		executors:    map[string]TaskExecutor{},
		defaultQuery: opts.DefaultQuery,
		timeout:      opts.Timeout,
		newID:        func() string { return ulid.Make().String() },
	}
	if strings.TrimSpace(c.defaultQuery) == "" {
		c.defaultQuery = config.DefaultQuery
	}
	l := logger.With().Str("component", "crew").Logger()
	c.logger = &l

	for _, name := range taskNames {
		t, err := roster.Task(name)
		if err != nil {
			return nil, err
		}
		a, err := roster.Agent(t.Agent)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", name, err)
		}
		if opts.Tools != nil {
			for _, tool := range append(append([]string{}, t.Tools...), a.Tools...) {
				if _, err := opts.Tools.Get(tool); err != nil {
					return nil, fmt.Errorf("task %s: %w", name, err)
				}
			}
		}
		c.tasks = append(c.tasks, t)
		if _, ok := c.executors[a.Name]; !ok {
			c.executors[a.Name] = factory(a)
		}
	}
	return c, nil
}

// NormalizeQuery trims q and substitutes the default when it is blank.
func (c *Crew) NormalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return c.defaultQuery
	}
	return q
}

// TaskNames lists the configured tasks in execution order.
func (c *Crew) TaskNames() []string {
	out := make([]string, len(c.tasks))
	for i, t := range c.tasks {
		out[i] = t.Name
	}
	return out
}

// Run executes every task and returns the last task's output. Any task error
// fails the whole run; no partial output is returned.
func (c *Crew) Run(ctx context.Context, query, filePath string) (string, error) {
	run, err := c.Execute(ctx, query, filePath)
	if err != nil {
		return "", err
	}
	return run.Result(), nil
}

// Execute is Run returning the full run record.
func (c *Crew) Execute(ctx context.Context, query, filePath string) (*model.PipelineRun, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	run := model.NewPipelineRun(c.newID(), c.TaskNames())
	ctx = logging.WithRunID(ctx, run.ID)
	log := logging.With(ctx, c.logger)
	defer logging.TraceDuration(log, "Crew.Execute")()

	rc := model.NewRunContext(c.NormalizeQuery(query), filePath)
	log.Info().Strs("tasks", run.Tasks).Str("query", logging.Preview(rc.Value(model.KeyQuery), 80)).Msg("run started")

	for _, t := range c.tasks {
		if err := run.Advance(); err != nil {
			return nil, c.fail(log, run, t.Name, err)
		}

		start := time.Now()
		out, err := c.executors[t.Agent].Execute(ctx, t, rc)
		elapsed := time.Since(start)
		metrics.ObserveTask(t.Name, elapsed.Milliseconds(), err == nil)
		if err != nil {
			return nil, c.fail(log, run, t.Name, err)
		}

		rc.Set(model.TaskKey(t.Name), out)
		if err := run.Record(model.TaskResult{Task: t.Name, Agent: t.Agent, Output: out, Duration: elapsed}); err != nil {
			return nil, c.fail(log, run, t.Name, err)
		}
		log.Info().Str("task", t.Name).Dur("duration", elapsed).Int("output_len", len(out)).Msg("task finished")
	}

	if err := run.Succeed(); err != nil {
		return nil, c.fail(log, run, run.CurrentTask(), err)
	}
	metrics.IncPipelineRun(string(model.RunStatusSucceeded))
	log.Info().Dur("duration", run.FinishedAt.Sub(run.StartedAt)).Msg("run succeeded")
	return run, nil
}

func (c *Crew) fail(log *zerolog.Logger, run *model.PipelineRun, task string, cause error) error {
	err := fmt.Errorf("%w: task %s: %w", domain.ErrPipelineFailed, task, cause)
	if run.Status == model.RunStatusRunning {
		_ = run.Fail(err)
	}
	metrics.IncPipelineRun(string(model.RunStatusFailed))
	log.Error().Err(cause).Str("task", task).Msg("run failed")
	return err
}
