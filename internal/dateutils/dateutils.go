// Package dateutils provides the date handling used by statement parsing.
package dateutils

import (
	"regexp"
	"strings"
	"time"
)

// DateLayoutISO is used whenever a date is written out.
const DateLayoutISO = "2006-01-02"

// StatementFormats are tried in order by ParseStatementDate. Day and month
// accept one or two digits; two-digit years pivot like strptime's %y.
var StatementFormats = []string{
	"2/1/2006", // DD/MM/YYYY
	"2-1-2006", // DD-MM-YYYY
	"2.1.2006", // DD.MM.YYYY
	"2/1/06",   // DD/MM/YY
	"2-1-06",   // DD-MM-YY
	"2.1.06",   // DD.MM.YY
	"2006-1-2", // YYYY-MM-DD
	"2006/1/2", // YYYY/MM/DD
}

var whitespace = regexp.MustCompile(`\s+`)

// Clock returns the current time. Parsers take one so tests can pin "now".
type Clock func() time.Time

// ParseDate tries every statement format in order.
// It reports false when none of them match.
func ParseDate(dateStr string) (time.Time, bool) {
	cleaned := CleanDateString(dateStr)
	if cleaned == "" {
		return time.Time{}, false
	}
	for _, layout := range StatementFormats {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseStatementDate parses a statement date, falling back to now() when the
// fragment matches no known format. The fallback is silent.
func ParseStatementDate(dateStr string, now Clock) time.Time {
	if t, ok := ParseDate(dateStr); ok {
		return t
	}
	if now == nil {
		now = time.Now
	}
	return now()
}

// CleanDateString trims the string and collapses inner whitespace
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
