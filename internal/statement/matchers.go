package statement

import (
	"strings"

	"github.com/shopspring/decimal"

	"fjacquet/upi-ledger/internal/currencyutils"
	"fjacquet/upi-ledger/internal/dateutils"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/textutils"
)

// LineMatcher recognizes one shape of statement line.
type LineMatcher interface {
	Name() string
	Match(line string) (models.CandidateTransaction, bool)
}

// DefaultMatchers returns the matchers in evaluation order. The first one
// that accepts a line wins and later ones are not consulted.
func DefaultMatchers(clock dateutils.Clock) []LineMatcher {
	return []LineMatcher{
		&DateDescriptionAmountMatcher{clock: clock},
		&UPIMatcher{clock: clock},
		&AmountFirstMatcher{clock: clock},
		&SalvageMatcher{clock: clock},
	}
}

func now(clock dateutils.Clock) dateutils.Clock {
	if clock == nil {
		return dateutils.Clock(timeNow)
	}
	return clock
}

func accept(description string, amount decimal.Decimal) bool {
	return textutils.RuneLen(description) > minDescriptionLength && amount.IsPositive()
}

// DateDescriptionAmountMatcher handles "12/05/2024 SWIGGY ORDER ₹450.00".
type DateDescriptionAmountMatcher struct {
	clock dateutils.Clock
}

func (m *DateDescriptionAmountMatcher) Name() string { return "date_description_amount" }

func (m *DateDescriptionAmountMatcher) Match(line string) (models.CandidateTransaction, bool) {
	groups := dateDescAmountRe.FindStringSubmatch(line)
	if groups == nil {
		return models.CandidateTransaction{}, false
	}
	description := strings.TrimSpace(groups[2])
	amount := currencyutils.ParseAmount(groups[3])
	if !accept(description, amount) {
		return models.CandidateTransaction{}, false
	}
	return models.CandidateTransaction{
		Date:        dateutils.ParseStatementDate(groups[1], now(m.clock)),
		Description: description,
		Amount:      amount,
		RawText:     line,
	}, true
}

// UPIMatcher handles "UPI/ZOMATO/4411 199.00". The line carries no date.
type UPIMatcher struct {
	clock dateutils.Clock
}

func (m *UPIMatcher) Name() string { return "upi" }

func (m *UPIMatcher) Match(line string) (models.CandidateTransaction, bool) {
	groups := upiRe.FindStringSubmatch(line)
	if groups == nil {
		return models.CandidateTransaction{}, false
	}
	description := strings.TrimSpace(groups[1])
	amount := currencyutils.ParseAmount(groups[2])
	if !accept(description, amount) {
		return models.CandidateTransaction{}, false
	}
	return models.CandidateTransaction{
		Date:        now(m.clock)(),
		Description: description,
		Amount:      amount,
		RawText:     line,
	}, true
}

// AmountFirstMatcher handles "450.00 SWIGGY ORDER 12/05/2024" with the date optional.
type AmountFirstMatcher struct {
	clock dateutils.Clock
}

func (m *AmountFirstMatcher) Name() string { return "amount_description_date" }

func (m *AmountFirstMatcher) Match(line string) (models.CandidateTransaction, bool) {
	groups := amountFirstRe.FindStringSubmatch(line)
	if groups == nil {
		return models.CandidateTransaction{}, false
	}
	description := strings.TrimSpace(groups[2])
	amount := currencyutils.ParseAmount(groups[1])
	if !accept(description, amount) {
		return models.CandidateTransaction{}, false
	}

	date := now(m.clock)()
	if groups[3] != "" {
		date = dateutils.ParseStatementDate(groups[3], m.clock)
	}
	return models.CandidateTransaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		RawText:     line,
	}, true
}

// SalvageMatcher is the last resort: it takes the largest amount-shaped
// substring as the amount and the rest of the line as the description.
type SalvageMatcher struct {
	clock dateutils.Clock
}

func (m *SalvageMatcher) Name() string { return "salvage" }

func (m *SalvageMatcher) Match(line string) (models.CandidateTransaction, bool) {
	spans := anyAmountRe.FindAllStringIndex(line, -1)
	if len(spans) == 0 {
		return models.CandidateTransaction{}, false
	}

	best := -1
	bestAmount := decimal.Zero
	for i, span := range spans {
		amount := currencyutils.ParseAmount(line[span[0]:span[1]])
		// strictly greater keeps the first occurrence on ties
		if amount.GreaterThan(bestAmount) {
			best, bestAmount = i, amount
		}
	}
	if best == -1 || !bestAmount.GreaterThan(decimal.NewFromInt(minSalvageAmount)) {
		return models.CandidateTransaction{}, false
	}

	span := spans[best]
	description := textutils.CollapseSpaces(line[:span[0]] + " " + line[span[1]:])
	if textutils.RuneLen(description) <= minSalvageDescription {
		return models.CandidateTransaction{}, false
	}
	return models.CandidateTransaction{
		Date:        now(m.clock)(),
		Description: description,
		Amount:      bestAmount,
		RawText:     line,
	}, true
}
