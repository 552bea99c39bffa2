package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
)

// profileKeywords is how many leading keywords describe a category in its embedding text.
const profileKeywords = 5

// ProfileTable is the ordered category table with one embedding per category.
// It is built once and never modified, so it is shared without locking.
type ProfileTable struct {
	profiles []models.CategoryProfile
	index    map[string]int
}

// ProfileText is the text embedded for a category: its name followed by its
// first five keywords, e.g. "Shopping amazon, flipkart, myntra, nykaa, shopping".
func ProfileText(cfg models.CategoryConfig) string {
	kw := cfg.Keywords
	if len(kw) > profileKeywords {
		kw = kw[:profileKeywords]
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s", cfg.Name, strings.Join(kw, ", ")))
}

// BuildProfileTable embeds every category. Categories whose embedding fails
// keep a nil embedding and never win the vector tier.
// A nil embedder builds a table without embeddings.
func BuildProfileTable(ctx context.Context, categories []models.CategoryConfig, embedder Embedder, logger logging.Logger) *ProfileTable {
	if logger == nil {
		logger = logging.GetLogger()
	}
	t := &ProfileTable{
		profiles: make([]models.CategoryProfile, 0, len(categories)),
		index:    make(map[string]int, len(categories)),
	}

	embedded := 0
	for _, cfg := range categories {
		if _, dup := t.index[cfg.Name]; dup || cfg.Name == "" {
			continue
		}
		keywords := make([]string, 0, len(cfg.Keywords))
		for _, k := range cfg.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		profile := models.CategoryProfile{Name: cfg.Name, Keywords: keywords}

		if embedder != nil {
			vec, err := embedder.Embed(ctx, ProfileText(cfg))
			if err != nil {
				logger.WithError(err).Warn("Failed to embed category profile",
					logging.Field{Key: logging.FieldCategory, Value: cfg.Name})
			} else {
				profile.Embedding = vec
				embedded++
			}
		}

		t.index[cfg.Name] = len(t.profiles)
		t.profiles = append(t.profiles, profile)
	}

	logger.Debug("Category profiles built",
		logging.Field{Key: logging.FieldCount, Value: len(t.profiles)},
		logging.Field{Key: "embedded", Value: embedded})
	return t
}

// Profiles returns the profiles in table order. Callers must not modify them.
func (t *ProfileTable) Profiles() []models.CategoryProfile {
	return t.profiles
}

// Names returns the category names in table order.
func (t *ProfileTable) Names() []string {
	names := make([]string, len(t.profiles))
	for i, p := range t.profiles {
		names[i] = p.Name
	}
	return names
}

// Has reports whether name is a known category.
func (t *ProfileTable) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len is the number of categories.
func (t *ProfileTable) Len() int {
	return len(t.profiles)
}
