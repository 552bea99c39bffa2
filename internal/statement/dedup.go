package statement

import "fjacquet/upi-ledger/internal/models"

// Deduplicator drops candidates whose fingerprint was already seen.
// A Deduplicator belongs to one extraction pass and is not safe for concurrent use.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator returns an empty Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Admit reports whether c is the first candidate with its fingerprint, and records it.
func (d *Deduplicator) Admit(c models.CandidateTransaction) bool {
	fp := c.Fingerprint()
	if _, dup := d.seen[fp]; dup {
		return false
	}
	d.seen[fp] = struct{}{}
	return true
}

// Len is the number of distinct fingerprints admitted so far.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
