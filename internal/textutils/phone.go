package textutils

import (
	"regexp"
	"strings"
)

// phonePatterns are tried in order; the first match of the first pattern that
// normalizes cleanly is the document owner's number.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+91[-\s]?[6-9]\d{9}`),
	regexp.MustCompile(`91[-\s]?[6-9]\d{9}`),
	regexp.MustCompile(`[6-9]\d{9}`),
	regexp.MustCompile(`\+91[-\s]?\d{10}`),
}

var (
	phoneSeparators = regexp.MustCompile(`[-\s]`)
	phoneNonDigits  = regexp.MustCompile(`[^\d+]`)
)

// ExtractPhone finds the statement owner's Indian mobile number in text and
// returns it as +91XXXXXXXXXX.
func ExtractPhone(text string) (string, bool) {
	for _, re := range phonePatterns {
		match := re.FindString(text)
		if match == "" {
			continue
		}
		phone := phoneSeparators.ReplaceAllString(match, "")
		if normalized, ok := normalizeDigits(phone); ok {
			return normalized, true
		}
	}
	return "", false
}

// NormalizePhone brings a user-supplied number into +91XXXXXXXXXX form.
// Numbers it cannot place are returned unchanged.
func NormalizePhone(phone string) string {
	cleaned := phoneNonDigits.ReplaceAllString(phone, "")
	if strings.HasPrefix(cleaned, "+91") {
		return cleaned
	}
	if normalized, ok := normalizeDigits(cleaned); ok {
		return normalized
	}
	return phone
}

func normalizeDigits(phone string) (string, bool) {
	switch {
	case strings.HasPrefix(phone, "91") && len(phone) == 12:
		return "+" + phone, true
	case len(phone) == 10:
		return "+91" + phone, true
	case strings.HasPrefix(phone, "+91"):
		return phone, true
	}
	return "", false
}
