package categorizer

import (
	"context"
	"sync/atomic"
)

// CompletionStatus is the outcome class of an LLM call.
type CompletionStatus int

const (
	CompletionOK CompletionStatus = iota
	CompletionQuotaExceeded
	CompletionFailed
)

func (s CompletionStatus) String() string {
	switch s {
	case CompletionOK:
		return "ok"
	case CompletionQuotaExceeded:
		return "quota_exceeded"
	default:
		return "failed"
	}
}

// Completion is the typed result of an LLM call. Failures are reported in
// Status, with Err kept for logging.
type Completion struct {
	Text   string
	Status CompletionStatus
	Err    error
}

// LLMClient sends a prompt to a language model.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) Completion
}

// Switch is the administrative on/off control for the LLM tier.
type Switch interface {
	Enabled() bool
}

// AtomicSwitch is a Switch that can be flipped at runtime.
type AtomicSwitch struct {
	on atomic.Bool
}

// NewSwitch returns an AtomicSwitch in the given state.
func NewSwitch(enabled bool) *AtomicSwitch {
	s := &AtomicSwitch{}
	s.on.Store(enabled)
	return s
}

func (s *AtomicSwitch) Enabled() bool {
	return s.on.Load()
}

// Set changes the state and returns the previous one.
func (s *AtomicSwitch) Set(enabled bool) bool {
	return s.on.Swap(enabled)
}
