package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"unicode"
)

// DefaultDimension matches the sentence-transformer models the hosted service used.
const DefaultDimension = 384

// HashEmbedder projects words and character trigrams into a fixed number of
// buckets (the "hashing trick") and normalizes the result. Texts sharing
// words or word fragments land close together, which is enough to compare
// transaction descriptions with category profiles and past transactions.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a HashEmbedder; dim <= 0 selects DefaultDimension.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &HashEmbedder{dim: dim}
}

// Dimension is the length of every vector returned by Embed.
func (e *HashEmbedder) Dimension() int {
	return e.dim
}

// Embed never fails; empty text yields a zero vector.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, token := range tokenize(text) {
		e.add(vec, "w:"+token, 1.0)

		padded := []rune("#" + token + "#")
		for i := 0; i+3 <= len(padded); i++ {
			e.add(vec, "t:"+string(padded[i:i+3]), 0.5)
		}
	}
	return Normalize(vec), nil
}

func (e *HashEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(e.dim))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
