package model

// LLMConfig is the process-wide model selection shared by every agent.
type LLMConfig struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// Agent is an immutable role definition. Tools are referenced by registry name.
type Agent struct {
	Name            string
	Role            string
	Goal            string
	Backstory       string
	Tools           []string
	LLM             *LLMConfig
	MaxIter         int
	AllowDelegation bool
}

// SystemPrompt renders the role conditioning sent ahead of every task.
func (a *Agent) SystemPrompt() string {
	return "You are " + a.Role + ". " + a.Backstory + "\nYour personal goal is: " + a.Goal
}
