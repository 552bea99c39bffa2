package categorizer

import (
	"context"
	"fmt"

	"fjacquet/upi-ledger/internal/embedding"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
)

const (
	// memoryAgreement is how many similar past transactions must share a category to override.
	memoryAgreement = 2
	// memoryOverrideFloor is the minimum confidence of a memory override.
	memoryOverrideFloor = 0.75
)

// SemanticStrategy compares the description embedding with every category
// profile, then lets the user's own similar past transactions override the
// result when enough of them agree.
type SemanticStrategy struct {
	embedder        Embedder
	memories        MemorySearcher
	table           *ProfileTable
	memoryLimit     int
	memoryThreshold float64
	logger          logging.Logger
}

// NewSemanticStrategy creates a SemanticStrategy. memories may be nil.
func NewSemanticStrategy(embedder Embedder, memories MemorySearcher, table *ProfileTable, memoryLimit int, memoryThreshold float64, logger logging.Logger) *SemanticStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &SemanticStrategy{
		embedder:        embedder,
		memories:        memories,
		table:           table,
		memoryLimit:     memoryLimit,
		memoryThreshold: memoryThreshold,
		logger:          logger,
	}
}

// Name returns the name of the strategy.
func (s *SemanticStrategy) Name() string {
	return "vector"
}

// Categorize always returns a classification. The error is set only when
// neither the profiles nor the memories produced any signal because a
// capability failed.
func (s *SemanticStrategy) Categorize(ctx context.Context, tx Transaction) (models.Classification, error) {
	best, bestSim := "", 0.0

	var embedErr error
	if s.embedder == nil {
		embedErr = fmt.Errorf("no embedder configured")
	} else if vec, err := s.embedder.Embed(ctx, tx.Description); err != nil {
		embedErr = err
		s.logger.WithError(err).Warn("Failed to embed description")
	} else {
		for _, p := range s.table.Profiles() {
			if len(p.Keywords) == 0 || p.Embedding == nil {
				continue
			}
			if sim := embedding.Dot(vec, p.Embedding); sim > bestSim {
				best, bestSim = p.Name, sim
			}
		}
	}

	if category, ok := s.memoryConsensus(ctx, tx); ok {
		s.logger.Debug("Past transactions override vector match",
			logging.Field{Key: logging.FieldCategory, Value: category},
			logging.Field{Key: logging.FieldUserID, Value: tx.UserID})
		best = category
		if bestSim < memoryOverrideFloor {
			bestSim = memoryOverrideFloor
		}
		embedErr = nil
	}

	if best == "" {
		best = models.CategoryOther
	}
	return models.Classification{
		Category:   best,
		Confidence: bestSim,
		Method:     models.MethodVector,
	}, embedErr
}

// memoryConsensus returns the most common category among the user's most
// similar memories, if at least two of them agree. Ties go to the category
// seen first.
func (s *SemanticStrategy) memoryConsensus(ctx context.Context, tx Transaction) (string, bool) {
	if s.memories == nil || tx.UserID == "" || s.memoryLimit <= 0 {
		return "", false
	}
	matches, err := s.memories.SearchSimilar(ctx, tx.UserID, tx.Description, s.memoryLimit, s.memoryThreshold)
	if err != nil {
		s.logger.WithError(err).Warn("Memory search failed",
			logging.Field{Key: logging.FieldUserID, Value: tx.UserID})
		return "", false
	}

	counts := make(map[string]int)
	var order []string
	for _, m := range matches {
		if m.Memory.Metadata == nil {
			continue
		}
		category := m.Category()
		if category == "" {
			category = models.CategoryOther
		}
		if counts[category] == 0 {
			order = append(order, category)
		}
		counts[category]++
	}

	top, topCount := "", 0
	for _, category := range order {
		if counts[category] > topCount {
			top, topCount = category, counts[category]
		}
	}
	return top, topCount >= memoryAgreement
}
