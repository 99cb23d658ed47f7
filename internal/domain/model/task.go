package model

import "time"

type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          string
	Tools          []string
	// Async is declared for parity with the task definitions; the sequential
	// process always executes tasks inline.
	Async bool
}

type TaskResult struct {
	Task     string
	Agent    string
	Output   string
	Duration time.Duration
}
