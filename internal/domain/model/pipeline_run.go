package model

import (
	"fmt"
	"time"

	"financial-document-analyzer/internal/domain"
)

type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun tracks one execution of the ordered task list.
type PipelineRun struct {
	ID         string
	Status     RunStatus
	Tasks      []string
	Current    int // index of the running task, -1 before start
	Outputs    []TaskResult
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

func NewPipelineRun(id string, tasks []string) *PipelineRun {
	t := make([]string, len(tasks))
	copy(t, tasks)
	return &PipelineRun{ID: id, Status: RunStatusPending, Tasks: t, Current: -1}
}

// Advance moves the run to the next task: PENDING -> RUNNING[0], RUNNING[i] -> RUNNING[i+1].
func (r *PipelineRun) Advance() error {
	switch r.Status {
	case RunStatusPending:
		if len(r.Tasks) == 0 {
			return fmt.Errorf("%w: no tasks", domain.ErrInvalidTransition)
		}
		r.Status = RunStatusRunning
		r.Current = 0
		r.StartedAt = time.Now()
		return nil
	case RunStatusRunning:
		if len(r.Outputs) != r.Current+1 {
			return fmt.Errorf("%w: task %q has no result", domain.ErrInvalidTransition, r.Tasks[r.Current])
		}
		if r.Current+1 >= len(r.Tasks) {
			return fmt.Errorf("%w: no task after %q", domain.ErrInvalidTransition, r.Tasks[r.Current])
		}
		r.Current++
		return nil
	default:
		return fmt.Errorf("%w: advance from %s", domain.ErrInvalidTransition, r.Status)
	}
}

// Record stores the result of the currently running task.
func (r *PipelineRun) Record(res TaskResult) error {
	if r.Status != RunStatusRunning || len(r.Outputs) != r.Current {
		return fmt.Errorf("%w: record in %s", domain.ErrInvalidTransition, r.Status)
	}
	r.Outputs = append(r.Outputs, res)
	return nil
}

// Succeed is only legal once every task has a result.
func (r *PipelineRun) Succeed() error {
	if r.Status != RunStatusRunning || len(r.Outputs) != len(r.Tasks) {
		return fmt.Errorf("%w: succeed in %s with %d/%d results", domain.ErrInvalidTransition, r.Status, len(r.Outputs), len(r.Tasks))
	}
	r.Status = RunStatusSucceeded
	r.FinishedAt = time.Now()
	return nil
}

func (r *PipelineRun) Fail(err error) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: fail in %s", domain.ErrInvalidTransition, r.Status)
	}
	r.Status = RunStatusFailed
	r.Err = err
	r.FinishedAt = time.Now()
	return nil
}

// CurrentTask returns the name of the running task or "".
func (r *PipelineRun) CurrentTask() string {
	if r.Current < 0 || r.Current >= len(r.Tasks) {
		return ""
	}
	return r.Tasks[r.Current]
}

// Result is the output of the last executed task.
func (r *PipelineRun) Result() string {
	if len(r.Outputs) == 0 {
		return ""
	}
	return r.Outputs[len(r.Outputs)-1].Output
}
