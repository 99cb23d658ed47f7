package usecase

import (
	"fmt"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/infra/tools"
)

// Agent names.
const (
	AgentFinancialAnalyst  = "financial_analyst"
	AgentVerifier          = "verifier"
	AgentInvestmentAdvisor = "investment_advisor"
	AgentRiskAssessor      = "risk_assessor"
)

// Task names.
const (
	TaskVerification       = "verification"
	TaskFinancialAnalysis  = "financial_analysis"
	TaskInvestmentAnalysis = "investment_analysis"
	TaskRiskAssessment     = "risk_assessment"
)

// FullChain runs every task in dependency order.
var FullChain = []string{TaskVerification, TaskFinancialAnalysis, TaskInvestmentAnalysis, TaskRiskAssessment}

const defaultMaxIter = 2

// Roster is the fixed set of agents and task definitions. It is built once at
// start-up and shared read-only by every run.
type Roster struct {
	agents map[string]*model.Agent
	tasks  map[string]*model.Task
}

// NewRoster builds the four specialist agents. All of them share llm.
func NewRoster(llm *model.LLMConfig) *Roster {
	r := &Roster{agents: map[string]*model.Agent{}, tasks: map[string]*model.Task{}}

	r.addAgent(&model.Agent{
		Name: AgentFinancialAnalyst,
		Role: "Senior Financial Analyst",
		Goal: "Analyze financial documents carefully and extract meaningful " +
			"financial insights based strictly on available data.",
		Backstory: "You are an experienced financial analyst specializing in market " +
			"evaluation, company fundamentals, and financial reporting. " +
			"You rely only on factual financial information and avoid speculation.",
		Tools:           []string{tools.DocumentReaderName, tools.WebSearchName},
		LLM:             llm,
		MaxIter:         defaultMaxIter,
		AllowDelegation: true,
	})
	r.addAgent(&model.Agent{
		Name: AgentVerifier,
		Role: "Financial Document Verifier",
		Goal: "Verify whether uploaded documents contain valid financial data " +
			"and ensure extracted information is accurate and relevant.",
		Backstory: "You specialize in financial compliance and document validation. " +
			"You carefully review documents before analysis to ensure correctness.",
		Tools:   []string{tools.DocumentReaderName, tools.DocumentInspectorName},
		LLM:     llm,
		MaxIter: defaultMaxIter,
	})
	r.addAgent(&model.Agent{
		Name: AgentInvestmentAdvisor,
		Role: "Investment Advisor",
		Goal: "Provide responsible investment suggestions based on financial " +
			"analysis results while considering risk and long-term sustainability.",
		Backstory: "You are a professional investment advisor focused on evidence-based " +
			"decision making. You recommend balanced and realistic investment strategies.",
		Tools:   []string{tools.InvestmentName},
		LLM:     llm,
		MaxIter: defaultMaxIter,
	})
	r.addAgent(&model.Agent{
		Name: AgentRiskAssessor,
		Role: "Risk Assessment Specialist",
		Goal: "Evaluate financial risks using financial indicators such as " +
			"liquidity, debt exposure, volatility, and operational stability.",
		Backstory: "You are an expert in financial risk analysis who identifies potential " +
			"financial threats and evaluates stability using structured reasoning.",
		Tools:   []string{tools.RiskName},
		LLM:     llm,
		MaxIter: defaultMaxIter,
	})

	r.addTask(&model.Task{
		Name: TaskVerification,
		Description: "Verify whether the uploaded file contains financial information. " +
			"Read the document carefully and determine if it includes financial " +
			"statements, numerical data, or business-related reporting.",
		ExpectedOutput: "A clear validation result stating whether the document is financial " +
			"in nature, along with a short justification.",
		Agent: AgentVerifier,
		Tools: []string{tools.DocumentReaderName},
	})
	r.addTask(&model.Task{
		Name: TaskFinancialAnalysis,
		Description: "Analyze the financial document provided and extract key insights " +
			"such as revenue trends, profitability indicators, and financial health. " +
			"Base conclusions strictly on document content.",
		ExpectedOutput: "Structured financial analysis including:\n" +
			"- Key financial metrics\n" +
			"- Observed trends\n" +
			"- Important highlights from the document",
		Agent: AgentFinancialAnalyst,
		Tools: []string{tools.DocumentReaderName},
	})
	r.addTask(&model.Task{
		Name: TaskInvestmentAnalysis,
		Description: "Based on the financial analysis results, provide responsible " +
			"investment recommendations. Suggestions must align with the " +
			"financial performance observed in the document.",
		ExpectedOutput: "Investment recommendations including:\n" +
			"- Potential opportunities\n" +
			"- Supporting reasoning\n" +
			"- Conservative risk-aware suggestions",
		Agent: AgentInvestmentAdvisor,
		Tools: []string{tools.DocumentReaderName},
	})
	r.addTask(&model.Task{
		Name: TaskRiskAssessment,
		Description: "Evaluate financial risks present in the analyzed document. " +
			"Consider liquidity, debt exposure, volatility, and operational risks.",
		ExpectedOutput: "Risk assessment report including:\n" +
			"- Identified risks\n" +
			"- Severity level\n" +
			"- Possible mitigation strategies",
		Agent: AgentRiskAssessor,
		Tools: []string{tools.DocumentReaderName},
	})
	return r
}

func (r *Roster) addAgent(a *model.Agent) { r.agents[a.Name] = a }
func (r *Roster) addTask(t *model.Task)   { r.tasks[t.Name] = t }

func (r *Roster) Agent(name string) (*model.Agent, error) {
	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAgent, name)
	}
	return a, nil
}

func (r *Roster) Task(name string) (*model.Task, error) {
	t, ok := r.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTask, name)
	}
	return t, nil
}
