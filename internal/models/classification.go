package models

// ClassificationMethod records which tier produced a classification.
type ClassificationMethod string

const (
	MethodKeyword                ClassificationMethod = "keyword"
	MethodVector                 ClassificationMethod = "vector"
	MethodGemini                 ClassificationMethod = "gemini"
	MethodFallbackQuotaExceeded  ClassificationMethod = "fallback_quota_exceeded"
	MethodFallbackError          ClassificationMethod = "fallback_error"
	MethodFallbackGeminiDisabled ClassificationMethod = "fallback_gemini_disabled"
)

// IsFallback reports whether the method is one of the LLM fallbacks.
func (m ClassificationMethod) IsFallback() bool {
	switch m {
	case MethodFallbackQuotaExceeded, MethodFallbackError, MethodFallbackGeminiDisabled:
		return true
	}
	return false
}

// Classification is the outcome of categorizing one description.
type Classification struct {
	Category   string               `json:"category"`
	Confidence float64              `json:"confidence"`
	Method     ClassificationMethod `json:"method"`
}
