package models

import (
	"fjacquet/upi-ledger/internal/logging"
)

// CategorizationStats tracks how a batch of transactions was classified.
type CategorizationStats struct {
	Total    int
	ByMethod map[ClassificationMethod]int
}

// Record counts one classification.
func (cs *CategorizationStats) Record(method ClassificationMethod) {
	if cs.ByMethod == nil {
		cs.ByMethod = make(map[ClassificationMethod]int)
	}
	cs.Total++
	cs.ByMethod[method]++
}

// Fallbacks returns how many classifications ended in an LLM fallback.
func (cs CategorizationStats) Fallbacks() int {
	n := 0
	for method, count := range cs.ByMethod {
		if method.IsFallback() {
			n += count
		}
	}
	return n
}

// GetSuccessRate is the percentage of classifications that did not fall back.
func (cs CategorizationStats) GetSuccessRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Total-cs.Fallbacks()) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of categorization statistics
func (cs CategorizationStats) LogSummary(logger logging.Logger, source string) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldSource, Value: source},
		logging.Field{Key: "total_transactions", Value: cs.Total},
		logging.Field{Key: "keyword", Value: cs.ByMethod[MethodKeyword]},
		logging.Field{Key: "vector", Value: cs.ByMethod[MethodVector]},
		logging.Field{Key: "gemini", Value: cs.ByMethod[MethodGemini]},
		logging.Field{Key: "fallback", Value: cs.Fallbacks()},
		logging.Field{Key: "success_rate", Value: cs.GetSuccessRate()},
	)
}
