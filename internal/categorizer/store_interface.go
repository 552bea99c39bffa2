package categorizer

import (
	"context"

	"fjacquet/upi-ledger/internal/models"
)

// CategoryStoreInterface supplies the category table and merchant mappings.
type CategoryStoreInterface interface {
	LoadCategories() ([]models.CategoryConfig, error)
	LoadMerchantMappings() (map[string]string, error)
}

// Embedder turns text into a unit vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// MemorySearcher finds a user's past transactions similar to a query.
type MemorySearcher interface {
	SearchSimilar(ctx context.Context, userID, query string, limit int, threshold float64) ([]models.MemoryMatch, error)
}
