// Package models provides the data structures used throughout the application.
package models

import (
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// fingerprintPrefix is how many runes of the description take part in a fingerprint.
const fingerprintPrefix = 50

// TransactionType is the direction of money flow from the statement owner's view.
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
)

// CandidateTransaction is a transaction recognized in a single statement line.
// Amount is always strictly positive; zero amounts are never emitted.
type CandidateTransaction struct {
	Date        time.Time       `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	RawText     string          `json:"raw_text" yaml:"raw_text"`
}

// Fingerprint identifies a candidate within one extraction pass:
// the first 50 runes of the description joined with the canonical amount.
func (c CandidateTransaction) Fingerprint() string {
	desc := c.Description
	if utf8.RuneCountInString(desc) > fingerprintPrefix {
		desc = string([]rune(desc)[:fingerprintPrefix])
	}
	return desc + "-" + c.Amount.String()
}

// EnrichedTransaction is a candidate with its inferred type, merchant and category.
// It is built once and not mutated afterwards.
type EnrichedTransaction struct {
	CandidateTransaction
	Type       TransactionType      `json:"type" yaml:"type"`
	Merchant   string               `json:"merchant,omitempty" yaml:"merchant,omitempty"`
	Category   string               `json:"category" yaml:"category"`
	Confidence float64              `json:"confidence" yaml:"confidence"`
	Method     ClassificationMethod `json:"method" yaml:"method"`
}

// Enrich combines a candidate with the results of inference and classification.
func Enrich(c CandidateTransaction, txType TransactionType, merchant string, cls Classification) EnrichedTransaction {
	return EnrichedTransaction{
		CandidateTransaction: c,
		Type:                 txType,
		Merchant:             merchant,
		Category:             cls.Category,
		Confidence:           cls.Confidence,
		Method:               cls.Method,
	}
}

// Label is the text used when describing the transaction to people or memories:
// the merchant when known, otherwise the raw line.
func (e EnrichedTransaction) Label() string {
	if e.Merchant != "" {
		return e.Merchant
	}
	return e.RawText
}
