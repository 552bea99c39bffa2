// Package textutils provides the text scanning shared by statement parsing and ingestion:
// merchant and direction inference, phone extraction and whitespace handling.
package textutils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var multiSpace = regexp.MustCompile(`\s+`)

// CollapseSpaces trims s and replaces every whitespace run with one space.
func CollapseSpaces(s string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// RuneLen is the length of s in characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Prefix returns at most the first n characters of s.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Lines splits text on any newline convention.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
