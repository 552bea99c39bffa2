package categorizer

import (
	"context"
	"strings"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/textutils"
)

const (
	// multiMatchBoost applies when two or more keywords of a category match.
	multiMatchBoost = 1.5
	// exactMatchBoost applies when a keyword occurs verbatim in the description.
	exactMatchBoost = 1.2
	// noKeywordConfidence is reported with "Other" when nothing matches.
	noKeywordConfidence = 0.2
)

// KeywordStrategy scores every category by how many of its keywords occur in
// the description. It is the cheapest tier and runs first.
type KeywordStrategy struct {
	table  *ProfileTable
	exact  []*textutils.TermSet
	logger logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(table *ProfileTable, logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	s := &KeywordStrategy{table: table, logger: logger}
	for _, p := range table.Profiles() {
		s.exact = append(s.exact, textutils.NewTermSet(p.Keywords...))
	}
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "keyword"
}

// Categorize never fails. With no keyword hit it returns Other at 0.2.
func (s *KeywordStrategy) Categorize(_ context.Context, tx Transaction) (models.Classification, error) {
	category, score := s.Score(tx.Description)
	if category == "" {
		return models.Classification{
			Category:   models.CategoryOther,
			Confidence: noKeywordConfidence,
			Method:     models.MethodKeyword,
		}, nil
	}

	s.logger.Debug("Keyword score",
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: logging.FieldConfidence, Value: score})
	return models.Classification{
		Category:   category,
		Confidence: score,
		Method:     models.MethodKeyword,
	}, nil
}

// Score returns the best scoring category and its score, or "" and 0 when no
// category has any match. Ties keep the category that comes first in the table.
//
// For each category, matches is the larger of the exact count (keywords found
// anywhere in the description) and the partial count (keywords that contain,
// or are contained in, some word of the description). The score is
// matches/len(keywords), boosted by 1.5 for two or more matches and by 1.2
// when any exact match exists, each boost capped at 1.
func (s *KeywordStrategy) Score(description string) (string, float64) {
	lower := strings.ToLower(description)
	words := strings.Fields(lower)

	best, bestScore := "", 0.0
	for i, p := range s.table.Profiles() {
		if len(p.Keywords) == 0 {
			continue
		}
		exact := len(s.exact[i].Hits(lower))
		partial := partialMatches(p.Keywords, words)

		matches := exact
		if partial > matches {
			matches = partial
		}
		if matches == 0 {
			continue
		}

		score := float64(matches) / float64(len(p.Keywords))
		if matches >= 2 {
			score = capped(score * multiMatchBoost)
		}
		if exact > 0 {
			score = capped(score * exactMatchBoost)
		}
		if score > bestScore {
			best, bestScore = p.Name, score
		}
	}
	return best, bestScore
}

func partialMatches(keywords, words []string) int {
	n := 0
	for _, k := range keywords {
		for _, w := range words {
			if strings.Contains(w, k) || strings.Contains(k, w) {
				n++
				break
			}
		}
	}
	return n
}

func capped(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
