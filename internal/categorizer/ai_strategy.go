package categorizer

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/upi-ledger/internal/currencyutils"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/parsererror"

	"github.com/shopspring/decimal"
)

const (
	// LLMConfidence is reported for every category named by the model.
	LLMConfidence = 0.85
	// FallbackConfidence is reported with "Other" when the model is not consulted or fails.
	FallbackConfidence = 0.4
)

const promptTemplate = `Classify this transaction into one of these categories:
%s

Transaction description: %s
Amount: %s

Respond with ONLY the category name, nothing else.`

// AIStrategy asks a language model for the category. It is the last tier
// and always produces a classification.
type AIStrategy struct {
	client LLMClient
	sw     Switch
	table  *ProfileTable
	logger logging.Logger
}

// NewAIStrategy creates a new AIStrategy. A nil client or switch behaves as disabled.
func NewAIStrategy(client LLMClient, sw Switch, table *ProfileTable, logger logging.Logger) *AIStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &AIStrategy{client: client, sw: sw, table: table, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *AIStrategy) Name() string {
	return "llm"
}

// Enabled reports whether the model would be consulted.
func (s *AIStrategy) Enabled() bool {
	return s.client != nil && s.sw != nil && s.sw.Enabled()
}

// Categorize never returns an error; failures map to fallback methods.
func (s *AIStrategy) Categorize(ctx context.Context, tx Transaction) (models.Classification, error) {
	if !s.Enabled() {
		return fallback(models.MethodFallbackGeminiDisabled), nil
	}

	completion := s.client.Complete(ctx, BuildPrompt(s.table.Names(), tx.Description, tx.Amount))
	switch completion.Status {
	case CompletionOK:
		category := s.resolve(ParseCategoryResponse(completion.Text))
		return models.Classification{
			Category:   category,
			Confidence: LLMConfidence,
			Method:     models.MethodGemini,
		}, nil

	case CompletionQuotaExceeded:
		s.logger.WithError(s.wrap(tx, completion.Err)).Warn("LLM quota exceeded, using fallback category")
		return fallback(models.MethodFallbackQuotaExceeded), nil

	default:
		s.logger.WithError(s.wrap(tx, completion.Err)).Warn("LLM categorization failed, using fallback category")
		return fallback(models.MethodFallbackError), nil
	}
}

// resolve maps a model answer onto a known category. Exact names win, then a
// case-insensitive match; anything else is "Other".
func (s *AIStrategy) resolve(answer string) string {
	if s.table.Has(answer) {
		return answer
	}
	for _, name := range s.table.Names() {
		if strings.EqualFold(name, answer) {
			return name
		}
	}
	s.logger.Debug("LLM answered with unknown category",
		logging.Field{Key: logging.FieldCategory, Value: answer})
	return models.CategoryOther
}

func (s *AIStrategy) wrap(tx Transaction, err error) error {
	if err == nil {
		err = fmt.Errorf("empty response")
	}
	return &parsererror.CategorizationError{
		Transaction: tx.Description,
		Strategy:    s.Name(),
		Err:         err,
	}
}

func fallback(method models.ClassificationMethod) models.Classification {
	return models.Classification{
		Category:   models.CategoryOther,
		Confidence: FallbackConfidence,
		Method:     method,
	}
}

// BuildPrompt renders the classification prompt sent to the model.
func BuildPrompt(categories []string, description string, amount decimal.Decimal) string {
	return fmt.Sprintf(promptTemplate,
		strings.Join(categories, ", "),
		description,
		currencyutils.FormatINR(amount))
}

// ParseCategoryResponse extracts the category name from a raw model answer:
// only the first line is kept, without surrounding whitespace or quotes.
func ParseCategoryResponse(text string) string {
	answer := strings.TrimSpace(text)
	if i := strings.IndexAny(answer, "\r\n"); i >= 0 {
		answer = answer[:i]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(answer), `"'`))
}
