package categorizer

import (
	"context"

	"fjacquet/upi-ledger/internal/models"
)

// CategorizationStrategy is one tier of the categorizer.
// Every tier returns a classification; the Categorizer decides whether its
// confidence is high enough to stop.
type CategorizationStrategy interface {
	// Categorize classifies tx. An error means the tier produced no signal.
	Categorize(ctx context.Context, tx Transaction) (models.Classification, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}

var (
	_ CategorizationStrategy = (*DirectMappingStrategy)(nil)
	_ CategorizationStrategy = (*KeywordStrategy)(nil)
	_ CategorizationStrategy = (*SemanticStrategy)(nil)
	_ CategorizationStrategy = (*AIStrategy)(nil)
)
