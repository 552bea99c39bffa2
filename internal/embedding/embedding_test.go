package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	return math.Sqrt(Dot(v, v))
}

func TestHashEmbedder_UnitLengthAndDeterministic(t *testing.T) {
	e := NewHashEmbedder(128)
	ctx := context.Background()

	a, err := e.Embed(ctx, "SWIGGY ORDER #123")
	require.NoError(t, err)
	b, err := e.Embed(ctx, "swiggy order 123")
	require.NoError(t, err)

	assert.Len(t, a, 128)
	assert.InDelta(t, 1.0, norm(a), 1e-5)
	assert.InDelta(t, 1.0, Dot(a, b), 1e-5, "case and punctuation do not matter")
}

func TestHashEmbedder_SimilarTextsScoreHigher(t *testing.T) {
	e := NewHashEmbedder(0)
	ctx := context.Background()
	assert.Equal(t, DefaultDimension, e.Dimension())

	query, _ := e.Embed(ctx, "zomato dinner order")
	food, _ := e.Embed(ctx, "Food & Dining swiggy, zomato, uber eats, food, restaurant")
	fuel, _ := e.Embed(ctx, "Transportation uber, ola, rapido, taxi, cab")

	assert.Greater(t, Dot(query, food), Dot(query, fuel))
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	v, err := NewHashEmbedder(32).Embed(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, 0.0, norm(v))
}

func TestVectorMath(t *testing.T) {
	assert.Equal(t, 0.0, Dot([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.InDelta(t, 1.0, Cosine([]float32{2, 0}, []float32{5, 0}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 3}), 1e-9)

	v := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, v[0], 1e-6)
	assert.InDelta(t, 0.8, v[1], 1e-6)
	assert.Equal(t, []float32{0, 0}, Normalize([]float32{0, 0}))
}

func TestNewGeminiEmbedder_RequiresKey(t *testing.T) {
	_, err := NewGeminiEmbedder(context.Background(), "", "", nil)
	assert.Error(t, err)
}
