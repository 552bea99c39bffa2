package statement

import (
	"regexp"
)

const (
	// amountToken matches "450", "₹450.00", "$ -1,250.5" and Indian lakh grouping "1,23,456.78".
	amountToken = `[₹$]?\s*-?\s*(?:\d{1,3}(?:,\d{2,3})+|\d+)(?:\.\d{1,2})?`

	// dateToken matches day-first dates with /, - or . separators and year-first ISO dates.
	dateToken = `(?:\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2}|\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`

	// amountEnd is what may follow a trailing amount: whitespace, end of line,
	// "/-", a trailing comma, or a glued Dr/Cr marker ("450.00Dr").
	amountEnd = `(?:\s|$|/-|,(?:\D|$)|(?i:dr|cr)\b)`
)

var (
	// date, description, amount
	dateDescAmountRe = regexp.MustCompile(`(` + dateToken + `)\s+(.+?)\s+(` + amountToken + `)` + amountEnd)

	// UPI/... or UPI-... reference followed by an amount
	upiRe = regexp.MustCompile(`(?i)(UPI[/\-].*?)\s+(` + amountToken + `)` + amountEnd)

	// amount first, description, optional trailing date
	amountFirstRe = regexp.MustCompile(`^(` + amountToken + `)\s+(.+?)(?:\s+(` + dateToken + `))?$`)

	// any amount-shaped substring, used by the fallback salvage
	anyAmountRe = regexp.MustCompile(amountToken)
)

// StopTerms mark header, footer and summary lines. A line containing any of
// them (case-insensitive substring) is never treated as a transaction.
var StopTerms = []string{
	"page", "statement", "account", "balance", "total", "date", "description",
	"amount", "debit", "credit", "opening", "closing", "summary",
}

const (
	// minLineLength is the shortest trimmed line considered at all.
	minLineLength = 10

	// minDescriptionLength is exclusive: descriptions need more runes than this.
	minDescriptionLength = 3

	// salvage rules are stricter: the amount must exceed minSalvageAmount and
	// the leftover description must be longer than minSalvageDescription.
	minSalvageAmount      = 10
	minSalvageDescription = 5
)
