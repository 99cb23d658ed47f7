package tools

import (
	"context"
	"strings"

	"financial-document-analyzer/internal/domain/model"
	"financial-document-analyzer/internal/domain/ports/adapter"
)

const (
	InvestmentPlaceholder = "Investment analysis completed. Document processed successfully."
	RiskPlaceholder       = "Risk assessment completed. Potential risks identified from financial indicators."
	searchSuffix          = " (Web search capability available)"
)

type investmentTool struct {
	forward bool
}

// NewInvestmentTool cleans interior whitespace of the document text. With
// forward=false the cleaned text is discarded and a fixed confirmation is returned.
func NewInvestmentTool(forward bool) adapter.Tool {
	return &investmentTool{forward: forward}
}

func (t *investmentTool) Name() string { return InvestmentName }
func (t *investmentTool) Description() string {
	return "Performs preprocessing for investment analysis."
}
func (t *investmentTool) Input() string  { return model.KeyDocumentText }
func (t *investmentTool) Output() string { return "" }

func (t *investmentTool) Run(_ context.Context, data string) (string, error) {
	cleaned := CollapseSpaces(data)
	if !t.forward {
		return InvestmentPlaceholder, nil
	}
	return cleaned, nil
}

// CollapseSpaces replaces every run of spaces with a single space.
func CollapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}

type riskTool struct{}

func NewRiskTool() adapter.Tool { return riskTool{} }

func (riskTool) Name() string        { return RiskName }
func (riskTool) Description() string { return "Creates a basic financial risk assessment." }
func (riskTool) Input() string       { return model.KeyDocumentText }
func (riskTool) Output() string      { return "" }

func (riskTool) Run(context.Context, string) (string, error) {
	return RiskPlaceholder, nil
}

type webSearch struct{}

// NewWebSearch is a stub search integration; it echoes the query.
func NewWebSearch() adapter.Tool { return webSearch{} }

func (webSearch) Name() string { return WebSearchName }
func (webSearch) Description() string {
	return "Searches the web for financial information and market data."
}
func (webSearch) Input() string  { return model.KeyQuery }
func (webSearch) Output() string { return "" }

func (webSearch) Run(_ context.Context, query string) (string, error) {
	return "Search results for: " + query + searchSuffix, nil
}
