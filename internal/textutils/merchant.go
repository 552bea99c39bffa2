package textutils

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fjacquet/upi-ledger/internal/models"
)

// KnownMerchants is the ordered merchant list. When several match, the earliest wins.
var KnownMerchants = []string{
	"swiggy", "zomato", "amazon", "flipkart", "myntra", "uber", "ola",
	"netflix", "bigbasket", "nykaa", "make my trip", "goibibo",
}

// CreditTerms mark money coming in and take precedence over DebitTerms.
var CreditTerms = []string{"credit", "salary", "deposit", "refund", "interest", "income"}

// DebitTerms mark money going out. Debit is also the default.
var DebitTerms = []string{"debit", "payment", "withdrawal", "purchase", "pos", "upi", "transfer"}

var (
	merchantTerms = NewTermSet(KnownMerchants...)
	creditTerms   = NewTermSet(CreditTerms...)
	debitTerms    = NewTermSet(DebitTerms...)
)

// DetermineType infers the transaction direction from the description.
func DetermineType(description string) models.TransactionType {
	if creditTerms.Contains(description) {
		return models.TransactionTypeCredit
	}
	if debitTerms.Contains(description) {
		return models.TransactionTypeDebit
	}
	return models.TransactionTypeDebit
}

// ExtractMerchant returns the title-cased name of the first known merchant
// found in the description, or "" when there is none.
func ExtractMerchant(description string) string {
	term, ok := merchantTerms.First(description)
	if !ok {
		return ""
	}
	return TitleCase(term)
}

// TitleCase upper-cases the first letter of each word.
func TitleCase(s string) string {
	// cases.Caser is stateful, so one per call.
	return cases.Title(language.English).String(s)
}
