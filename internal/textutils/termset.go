package textutils

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// TermSet finds which of a fixed list of lower-case terms occur as substrings
// of a text, in a single pass. Matching is case-insensitive.
type TermSet struct {
	terms []string

	// ahocorasick.Matcher keeps per-call state, so calls are serialized.
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

// NewTermSet builds a TermSet. Terms keep their order; Hits reports indexes into it.
func NewTermSet(terms ...string) *TermSet {
	lowered := make([]string, len(terms))
	for i, t := range terms {
		lowered[i] = strings.ToLower(t)
	}
	return &TermSet{
		terms:   lowered,
		matcher: ahocorasick.NewStringMatcher(lowered),
	}
}

// Hits returns the indexes of every term found in text, each at most once.
func (s *TermSet) Hits(text string) []int {
	if len(s.terms) == 0 || text == "" {
		return nil
	}
	in := []byte(strings.ToLower(text))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matcher.Match(in)
}

// Contains reports whether any term occurs in text.
func (s *TermSet) Contains(text string) bool {
	return len(s.Hits(text)) > 0
}

// First returns the matching term with the lowest list index.
func (s *TermSet) First(text string) (string, bool) {
	best := -1
	for _, idx := range s.Hits(text) {
		if best == -1 || idx < best {
			best = idx
		}
	}
	if best == -1 {
		return "", false
	}
	return s.terms[best], true
}

// Terms returns a copy of the terms in list order.
func (s *TermSet) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}
