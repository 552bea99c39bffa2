package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/upi-ledger/internal/models"
)

// StrategyResult records one tier attempt.
type StrategyResult struct {
	Strategy       string
	Classification models.Classification
	Accepted       bool
	Error          error
}

// StrategyResults is the trace of a single classification, in tier order.
type StrategyResults struct {
	Results []StrategyResult
}

func (sr *StrategyResults) add(r StrategyResult) {
	sr.Results = append(sr.Results, r)
}

// Final returns the accepted classification, or the last attempt when none was accepted.
func (sr StrategyResults) Final() (models.Classification, bool) {
	for _, r := range sr.Results {
		if r.Accepted {
			return r.Classification, true
		}
	}
	if n := len(sr.Results); n > 0 {
		return sr.Results[n-1].Classification, false
	}
	return models.Classification{}, false
}

// GetErrors returns all errors encountered during strategy execution
func (sr StrategyResults) GetErrors() []error {
	var errs []error
	for _, result := range sr.Results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", result.Strategy, result.Error))
		}
	}
	return errs
}

// Summary renders the trace, e.g. "keyword:0.09, vector:0.31, llm:accepted(0.85)".
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		switch {
		case r.Error != nil:
			parts = append(parts, fmt.Sprintf("%s:error", r.Strategy))
		case r.Accepted:
			parts = append(parts, fmt.Sprintf("%s:accepted(%.2f)", r.Strategy, r.Classification.Confidence))
		default:
			parts = append(parts, fmt.Sprintf("%s:%.2f", r.Strategy, r.Classification.Confidence))
		}
	}
	return strings.Join(parts, ", ")
}
