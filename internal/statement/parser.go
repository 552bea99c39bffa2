// Package statement turns raw statement text into candidate transactions.
//
// Each line goes through a length check, a stoplist check and then an ordered
// chain of LineMatchers; the first matcher that accepts the line produces the
// candidate. Candidates are deduplicated by fingerprint within one Parse call.
package statement

import (
	"strings"
	"time"

	"fjacquet/upi-ledger/internal/dateutils"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/textutils"
)

var timeNow = time.Now

// Skip reasons reported by ClassifyLine.
const (
	ReasonTooShort  = "too_short"
	ReasonStopTerm  = "stop_term"
	ReasonNoPattern = "no_pattern"
)

// Parser extracts candidate transactions from statement text.
// It holds no per-document state and may be shared between goroutines.
type Parser struct {
	logger   logging.Logger
	matchers []LineMatcher
	stop     *textutils.TermSet
}

// Option customizes a Parser.
type Option func(*Parser)

// WithClock fixes the processing time used for lines that carry no date.
func WithClock(clock dateutils.Clock) Option {
	return func(p *Parser) {
		p.matchers = DefaultMatchers(clock)
	}
}

// WithMatchers replaces the matcher chain.
func WithMatchers(matchers ...LineMatcher) Option {
	return func(p *Parser) {
		p.matchers = matchers
	}
}

// NewParser creates a Parser with the default matcher chain.
func NewParser(logger logging.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	p := &Parser{
		logger:   logger,
		matchers: DefaultMatchers(nil),
		stop:     textutils.NewTermSet(StopTerms...),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LineResult describes what happened to one line.
type LineResult struct {
	Candidate models.CandidateTransaction
	Matcher   string
	Reason    string
	OK        bool
}

// ClassifyLine runs the checks and matcher chain on a single line.
func (p *Parser) ClassifyLine(line string) LineResult {
	line = strings.TrimSpace(line)
	if textutils.RuneLen(line) < minLineLength {
		return LineResult{Reason: ReasonTooShort}
	}
	if p.stop.Contains(line) {
		return LineResult{Reason: ReasonStopTerm}
	}
	for _, m := range p.matchers {
		if c, ok := m.Match(line); ok {
			return LineResult{Candidate: c, Matcher: m.Name(), OK: true}
		}
	}
	return LineResult{Reason: ReasonNoPattern}
}

// Parse extracts deduplicated candidates from text, in line order.
// An empty result is not an error here; callers decide what it means.
func (p *Parser) Parse(text string) []models.CandidateTransaction {
	dedup := NewDeduplicator()
	var out []models.CandidateTransaction
	skipped := map[string]int{}
	duplicates := 0

	for _, line := range textutils.Lines(text) {
		res := p.ClassifyLine(line)
		if !res.OK {
			skipped[res.Reason]++
			continue
		}
		if !dedup.Admit(res.Candidate) {
			duplicates++
			continue
		}
		p.logger.Debug("Matched statement line",
			logging.Field{Key: logging.FieldMatcher, Value: res.Matcher},
			logging.Field{Key: logging.FieldDescription, Value: res.Candidate.Description})
		out = append(out, res.Candidate)
	}

	p.logger.Debug("Parsed statement text",
		logging.Field{Key: logging.FieldCount, Value: len(out)},
		logging.Field{Key: "duplicates", Value: duplicates},
		logging.Field{Key: "skipped_short", Value: skipped[ReasonTooShort]},
		logging.Field{Key: "skipped_stop_term", Value: skipped[ReasonStopTerm]},
		logging.Field{Key: "skipped_no_pattern", Value: skipped[ReasonNoPattern]})
	return out
}
