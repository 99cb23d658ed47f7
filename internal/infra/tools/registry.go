// Package tools holds the capabilities agents can use during a task.
package tools

import (
	"fmt"
	"sort"

	"financial-document-analyzer/internal/domain"
	"financial-document-analyzer/internal/domain/ports/adapter"
)

// Registry names.
const (
	DocumentReaderName    = "financial_document_reader"
	WebSearchName         = "web_search"
	InvestmentName        = "investment_analysis_tool"
	RiskName              = "risk_assessment_tool"
	DocumentInspectorName = "document_inspector"
)

// Registry maps tool names to implementations. It is built once at start-up
// and only read afterwards.
type Registry struct {
	byName map[string]adapter.Tool
}

func NewRegistry(ts ...adapter.Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]adapter.Tool, len(ts))}
	for _, t := range ts {
		if _, dup := r.byName[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool %q", t.Name())
		}
		r.byName[t.Name()] = t
	}
	return r, nil
}

func (r *Registry) Get(name string) (adapter.Tool, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}
	return t, nil
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Options toggles behaviour of the preprocessing tools.
type Options struct {
	InvestmentForwardCleaned bool
}

// Default wires the standard tool set.
func Default(extractor adapter.DocumentExtractor, inspector adapter.DocumentInspector, opts Options) *Registry {
	r, _ := NewRegistry(
		NewDocumentReader(extractor),
		NewWebSearch(),
		NewInvestmentTool(opts.InvestmentForwardCleaned),
		NewRiskTool(),
		NewDocumentInspector(inspector),
	)
	return r
}
