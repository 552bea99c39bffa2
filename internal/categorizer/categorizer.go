// Package categorizer assigns a spending category to transaction descriptions.
//
// Tiers run in order and the first one that is confident enough wins:
// merchant mapping and keyword scoring, then embedding similarity with the
// user's past transactions, then a language model. The model tier always
// answers, so classification never fails.
package categorizer

import (
	"context"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Options tunes the acceptance thresholds and memory lookup.
type Options struct {
	KeywordThreshold float64
	VectorThreshold  float64
	MemoryLimit      int
	MemoryThreshold  float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		KeywordThreshold: 0.3,
		VectorThreshold:  0.5,
		MemoryLimit:      3,
		MemoryThreshold:  0.6,
	}
}

// Dependencies are the capabilities a Categorizer is built from.
// Only Table is required.
type Dependencies struct {
	Table     *ProfileTable
	Merchants map[string]string
	Embedder  Embedder
	Memories  MemorySearcher
	LLM       LLMClient
	Switch    Switch
}

// Categorizer runs the classification tiers. It holds no per-call state and
// is safe for concurrent use.
type Categorizer struct {
	table    *ProfileTable
	direct   *DirectMappingStrategy
	keyword  *KeywordStrategy
	semantic *SemanticStrategy
	ai       *AIStrategy
	opts     Options
	logger   logging.Logger
}

// NewCategorizer creates a Categorizer from its dependencies.
func NewCategorizer(deps Dependencies, opts Options, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	table := deps.Table
	if table == nil {
		table = &ProfileTable{index: map[string]int{}}
	}
	return &Categorizer{
		table:    table,
		direct:   NewDirectMappingStrategy(deps.Merchants, table, logger),
		keyword:  NewKeywordStrategy(table, logger),
		semantic: NewSemanticStrategy(deps.Embedder, deps.Memories, table, opts.MemoryLimit, opts.MemoryThreshold, logger),
		ai:       NewAIStrategy(deps.LLM, deps.Switch, table, logger),
		opts:     opts,
		logger:   logger,
	}
}

// Classify returns the category of one description. It never fails.
func (c *Categorizer) Classify(ctx context.Context, description, userID string, amount decimal.Decimal) models.Classification {
	cls, _ := c.Categorize(ctx, Transaction{Description: description, UserID: userID, Amount: amount})
	return cls
}

// Categorize classifies tx and returns the trace of every tier attempted.
func (c *Categorizer) Categorize(ctx context.Context, tx Transaction) (models.Classification, StrategyResults) {
	var trace StrategyResults

	if cls, err := c.direct.Categorize(ctx, tx); err == nil {
		trace.add(StrategyResult{Strategy: c.direct.Name(), Classification: cls, Accepted: true})
		return c.done(tx, cls, trace)
	}

	cls, _ := c.keyword.Categorize(ctx, tx)
	accepted := cls.Confidence >= c.opts.KeywordThreshold
	trace.add(StrategyResult{Strategy: c.keyword.Name(), Classification: cls, Accepted: accepted})
	if accepted {
		return c.done(tx, cls, trace)
	}

	cls, err := c.semantic.Categorize(ctx, tx)
	accepted = err == nil && cls.Confidence >= c.opts.VectorThreshold
	trace.add(StrategyResult{Strategy: c.semantic.Name(), Classification: cls, Accepted: accepted, Error: err})
	if accepted {
		return c.done(tx, cls, trace)
	}

	cls, _ = c.ai.Categorize(ctx, tx)
	trace.add(StrategyResult{Strategy: c.ai.Name(), Classification: cls, Accepted: true})
	return c.done(tx, cls, trace)
}

func (c *Categorizer) done(tx Transaction, cls models.Classification, trace StrategyResults) (models.Classification, StrategyResults) {
	c.logger.Debug("Transaction categorized",
		logging.Field{Key: logging.FieldDescription, Value: tx.Description},
		logging.Field{Key: logging.FieldCategory, Value: cls.Category},
		logging.Field{Key: logging.FieldMethod, Value: string(cls.Method)},
		logging.Field{Key: logging.FieldConfidence, Value: cls.Confidence},
		logging.Field{Key: "trace", Value: trace.Summary()})
	return cls, trace
}

// Categories returns the category names in table order.
func (c *Categorizer) Categories() []string {
	return c.table.Names()
}

// LLMEnabled reports whether the model tier is currently consulted.
func (c *Categorizer) LLMEnabled() bool {
	return c.ai.Enabled()
}

// MerchantMappings is the number of active merchant mappings.
func (c *Categorizer) MerchantMappings() int {
	return c.direct.Len()
}
