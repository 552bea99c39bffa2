package categorizer

import (
	"context"
	"errors"
	"sort"
	"strings"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/textutils"
)

// DirectMappingConfidence is reported when a merchant mapping decides the category.
const DirectMappingConfidence = 0.9

// errNoMapping means no merchant fragment occurs in the description.
var errNoMapping = errors.New("no merchant mapping")

// DirectMappingStrategy assigns a category straight from a known merchant
// fragment found in the description. Longer fragments win over shorter ones,
// so "uber eats" beats "uber".
type DirectMappingStrategy struct {
	fragments []string
	mapping   map[string]string
	terms     *textutils.TermSet
	logger    logging.Logger
}

// NewDirectMappingStrategy builds the strategy from fragment → category pairs.
// Mappings to categories missing from the table are dropped.
func NewDirectMappingStrategy(mappings map[string]string, table *ProfileTable, logger logging.Logger) *DirectMappingStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	s := &DirectMappingStrategy{
		mapping: make(map[string]string, len(mappings)),
		logger:  logger,
	}
	for fragment, category := range mappings {
		key := strings.ToLower(strings.TrimSpace(fragment))
		if key == "" {
			continue
		}
		if table != nil && !table.Has(category) {
			logger.Warn("Ignoring merchant mapping to unknown category",
				logging.Field{Key: "merchant", Value: fragment},
				logging.Field{Key: logging.FieldCategory, Value: category})
			continue
		}
		s.mapping[key] = category
		s.fragments = append(s.fragments, key)
	}
	sort.Slice(s.fragments, func(i, j int) bool {
		if len(s.fragments[i]) != len(s.fragments[j]) {
			return len(s.fragments[i]) > len(s.fragments[j])
		}
		return s.fragments[i] < s.fragments[j]
	})
	s.terms = textutils.NewTermSet(s.fragments...)
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string {
	return "direct_mapping"
}

// Categorize returns errNoMapping when no fragment matches.
func (s *DirectMappingStrategy) Categorize(_ context.Context, tx Transaction) (models.Classification, error) {
	fragment, ok := s.terms.First(tx.Description)
	if !ok {
		return models.Classification{}, errNoMapping
	}
	category := s.mapping[fragment]
	s.logger.Debug("Transaction categorized by merchant mapping",
		logging.Field{Key: "merchant", Value: fragment},
		logging.Field{Key: logging.FieldCategory, Value: category})
	return models.Classification{
		Category:   category,
		Confidence: DirectMappingConfidence,
		Method:     models.MethodKeyword,
	}, nil
}

// Len is the number of active mappings.
func (s *DirectMappingStrategy) Len() int {
	return len(s.fragments)
}
