package adapter

import "context"

// Tool is a named capability an agent can use while executing a task.
// Input names the run context key whose value is passed to Run; Output names
// the key the result is stored under, or "" when the result only feeds the prompt.
type Tool interface {
	Name() string
	Description() string
	Input() string
	Output() string
	Run(ctx context.Context, input string) (string, error)
}
