package categorizer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
)

var testCategories = []models.CategoryConfig{
	{Name: "Transportation", Keywords: []string{"uber", "ola", "taxi", "fuel"}},
	{Name: "Food & Dining", Keywords: []string{"restaurant", "cafe", "food", "swiggy"}},
	{Name: "Shopping", Keywords: []string{"amazon", "flipkart", "store", "mall"}},
	{Name: models.CategoryOther},
}

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

type fakeMemory struct {
	matches []models.MemoryMatch
	err     error
	calls   int
}

func (f *fakeMemory) SearchSimilar(_ context.Context, _, _ string, limit int, _ float64) ([]models.MemoryMatch, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.matches) > limit {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}

type fakeLLM struct {
	mu         sync.Mutex
	completion Completion
	prompts    []string
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) Completion {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.completion
}

func profileEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		ProfileText(testCategories[0]): {1, 0, 0},
		ProfileText(testCategories[1]): {0, 1, 0},
		ProfileText(testCategories[2]): {0, 0.6, -0.8},
		"XYZ ride":                     {0.8, 0.6, 0},
	}}
}

func memoryMatch(category string, sim float64) models.MemoryMatch {
	return models.MemoryMatch{
		Memory:     models.Memory{Metadata: map[string]string{models.MetadataCategory: category}},
		Similarity: sim,
	}
}

func newTestCategorizer(t *testing.T, deps Dependencies) *Categorizer {
	t.Helper()
	logger := logging.NewMockLogger()
	if deps.Table == nil {
		deps.Table = BuildProfileTable(context.Background(), testCategories, deps.Embedder, logger)
	}
	return NewCategorizer(deps, DefaultOptions(), logger)
}

func TestProfileText(t *testing.T) {
	cfg := models.CategoryConfig{Name: "Shopping", Keywords: []string{"amazon", "flipkart", "myntra", "nykaa", "shopping", "mall"}}
	assert.Equal(t, "Shopping amazon, flipkart, myntra, nykaa, shopping", ProfileText(cfg))
	assert.Equal(t, "Other", ProfileText(models.CategoryConfig{Name: "Other"}))
}

func TestBuildProfileTable(t *testing.T) {
	categories := append([]models.CategoryConfig{}, testCategories...)
	categories = append(categories,
		models.CategoryConfig{Name: "Transportation", Keywords: []string{"bus"}},
		models.CategoryConfig{Name: "", Keywords: []string{"nothing"}},
		models.CategoryConfig{Name: "Travel", Keywords: []string{" Flight ", ""}},
	)

	table := BuildProfileTable(context.Background(), categories, profileEmbedder(), logging.NewMockLogger())

	assert.Equal(t, []string{"Transportation", "Food & Dining", "Shopping", "Other", "Travel"}, table.Names())
	assert.True(t, table.Has("Travel"))
	assert.False(t, table.Has("travel"))
	assert.Equal(t, []string{"uber", "ola", "taxi", "fuel"}, table.Profiles()[0].Keywords)
	assert.Equal(t, []string{"flight"}, table.Profiles()[4].Keywords)
	assert.Equal(t, []float32{1, 0, 0}, table.Profiles()[0].Embedding)
}

func TestBuildProfileTable_EmbedFailure(t *testing.T) {
	logger := logging.NewMockLogger()
	table := BuildProfileTable(context.Background(), testCategories, &fakeEmbedder{err: errors.New("offline")}, logger)

	require.Equal(t, 4, table.Len())
	for _, p := range table.Profiles() {
		assert.Nil(t, p.Embedding)
	}
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 4)
}

func TestKeywordStrategy_Score(t *testing.T) {
	table := BuildProfileTable(context.Background(), testCategories, nil, logging.NewMockLogger())
	s := NewKeywordStrategy(table, logging.NewMockLogger())

	tests := []struct {
		name        string
		description string
		category    string
		score       float64
	}{
		// 2 exact of 4: 0.5 * 1.5 * 1.2
		{"two exact matches", "Uber taxi ride", "Transportation", 0.9},
		// 1 exact of 4: 0.25 * 1.2
		{"one exact match", "Payment at CAFE COFFEE DAY", "Food & Dining", 0.3},
		// "restaurant" contains the word "rest": partial only
		{"partial match only", "rest", "Food & Dining", 0.25},
		{"tie keeps first category", "uber amazon", "Transportation", 0.3},
		{"no match", "NEFT reference 88213", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, score := s.Score(tt.description)
			assert.Equal(t, tt.category, category)
			assert.InDelta(t, tt.score, score, 1e-9)
		})
	}
}

func TestKeywordStrategy_NoMatchIsOther(t *testing.T) {
	table := BuildProfileTable(context.Background(), testCategories, nil, nil)
	cls, err := NewKeywordStrategy(table, nil).Categorize(context.Background(), Transaction{Description: "zzzz"})
	require.NoError(t, err)
	assert.Equal(t, models.Classification{Category: "Other", Confidence: 0.2, Method: models.MethodKeyword}, cls)
}

func TestDirectMappingStrategy(t *testing.T) {
	table := BuildProfileTable(context.Background(), testCategories, nil, nil)
	logger := logging.NewMockLogger()
	s := NewDirectMappingStrategy(map[string]string{
		"uber":      "Transportation",
		"uber eats": "Food & Dining",
		"swiggy":    "Food & Dining",
		"irctc":     "Travel",
	}, table, logger)

	assert.Equal(t, 3, s.Len())
	assert.True(t, logger.HasEntry("WARN", "Ignoring merchant mapping to unknown category"))

	cls, err := s.Categorize(context.Background(), Transaction{Description: "UBER EATS order 4411"})
	require.NoError(t, err)
	assert.Equal(t, "Food & Dining", cls.Category)
	assert.Equal(t, DirectMappingConfidence, cls.Confidence)
	assert.Equal(t, models.MethodKeyword, cls.Method)

	_, err = s.Categorize(context.Background(), Transaction{Description: "IRCTC ticket"})
	assert.ErrorIs(t, err, errNoMapping)
}

func TestCategorizer_MerchantMappingWins(t *testing.T) {
	c := newTestCategorizer(t, Dependencies{
		Merchants: map[string]string{"swiggy": "Food & Dining"},
		Switch:    NewSwitch(false),
	})

	cls := c.Classify(context.Background(), "SWIGGY ORDER #123", "", decimal.NewFromInt(450))
	assert.Equal(t, "Food & Dining", cls.Category)
	assert.Equal(t, models.MethodKeyword, cls.Method)
	assert.GreaterOrEqual(t, cls.Confidence, 0.3)
}

func TestCategorizer_KeywordTier(t *testing.T) {
	llm := &fakeLLM{completion: Completion{Text: "Shopping", Status: CompletionOK}}
	c := newTestCategorizer(t, Dependencies{LLM: llm, Switch: NewSwitch(true)})

	cls, trace := c.Categorize(context.Background(), Transaction{Description: "Uber taxi ride"})
	assert.Equal(t, "Transportation", cls.Category)
	assert.Equal(t, models.MethodKeyword, cls.Method)
	require.Len(t, trace.Results, 1)
	assert.Empty(t, llm.prompts)
}

func TestCategorizer_VectorTier(t *testing.T) {
	c := newTestCategorizer(t, Dependencies{Embedder: profileEmbedder(), Switch: NewSwitch(false)})

	cls, trace := c.Categorize(context.Background(), Transaction{Description: "XYZ ride"})
	assert.Equal(t, "Transportation", cls.Category)
	assert.Equal(t, models.MethodVector, cls.Method)
	assert.InDelta(t, 0.8, cls.Confidence, 1e-6)
	assert.Equal(t, "keyword:0.20, vector:accepted(0.80)", trace.Summary())
}

func TestCategorizer_MemoryOverride(t *testing.T) {
	memories := &fakeMemory{matches: []models.MemoryMatch{
		memoryMatch("Shopping", 0.9),
		memoryMatch("Food & Dining", 0.8),
		memoryMatch("Food & Dining", 0.7),
	}}
	c := newTestCategorizer(t, Dependencies{Embedder: profileEmbedder(), Memories: memories, Switch: NewSwitch(false)})

	cls := c.Classify(context.Background(), "QWE", "user-1", decimal.NewFromInt(10))
	assert.Equal(t, "Food & Dining", cls.Category)
	assert.Equal(t, models.MethodVector, cls.Method)
	assert.Equal(t, 0.75, cls.Confidence)
	assert.Equal(t, 1, memories.calls)
}

func TestCategorizer_MemoryOverrideKeepsHigherSimilarity(t *testing.T) {
	memories := &fakeMemory{matches: []models.MemoryMatch{
		memoryMatch("Shopping", 0.9),
		memoryMatch("Shopping", 0.8),
	}}
	c := newTestCategorizer(t, Dependencies{Embedder: profileEmbedder(), Memories: memories})

	cls := c.Classify(context.Background(), "XYZ ride", "user-1", decimal.Zero)
	assert.Equal(t, "Shopping", cls.Category)
	assert.InDelta(t, 0.8, cls.Confidence, 1e-6)
}

func TestCategorizer_MemoryNeedsAgreement(t *testing.T) {
	memories := &fakeMemory{matches: []models.MemoryMatch{
		memoryMatch("Shopping", 0.9),
		memoryMatch("Food & Dining", 0.8),
	}}
	c := newTestCategorizer(t, Dependencies{Embedder: profileEmbedder(), Memories: memories, Switch: NewSwitch(false)})

	cls := c.Classify(context.Background(), "QWE", "user-1", decimal.Zero)
	assert.Equal(t, models.MethodFallbackGeminiDisabled, cls.Method)
}

func TestCategorizer_MemorySkippedWithoutUser(t *testing.T) {
	memories := &fakeMemory{matches: []models.MemoryMatch{memoryMatch("Shopping", 1), memoryMatch("Shopping", 1)}}
	c := newTestCategorizer(t, Dependencies{Embedder: profileEmbedder(), Memories: memories})

	c.Classify(context.Background(), "QWE", "", decimal.Zero)
	assert.Zero(t, memories.calls)
}

func TestCategorizer_DegradesWhenCapabilitiesFail(t *testing.T) {
	llm := &fakeLLM{completion: Completion{Text: "Shopping", Status: CompletionOK}}
	c := newTestCategorizer(t, Dependencies{
		Table:    BuildProfileTable(context.Background(), testCategories, nil, nil),
		Embedder: &fakeEmbedder{err: errors.New("embedding service down")},
		Memories: &fakeMemory{err: errors.New("store closed")},
		LLM:      llm,
		Switch:   NewSwitch(true),
	})

	cls, trace := c.Categorize(context.Background(), Transaction{Description: "QWE", UserID: "u"})
	assert.Equal(t, "Shopping", cls.Category)
	assert.Equal(t, models.MethodGemini, cls.Method)
	assert.Equal(t, LLMConfidence, cls.Confidence)
	assert.Len(t, trace.GetErrors(), 1)
}

func TestCategorizer_LLMOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		completion Completion
		enabled    bool
		expected   models.Classification
	}{
		{
			name:     "disabled",
			enabled:  false,
			expected: models.Classification{Category: "Other", Confidence: 0.4, Method: models.MethodFallbackGeminiDisabled},
		},
		{
			name:       "known category",
			completion: Completion{Text: "  \"Food & Dining\"\nbecause it is a restaurant", Status: CompletionOK},
			enabled:    true,
			expected:   models.Classification{Category: "Food & Dining", Confidence: 0.85, Method: models.MethodGemini},
		},
		{
			name:       "case differs",
			completion: Completion{Text: "shopping", Status: CompletionOK},
			enabled:    true,
			expected:   models.Classification{Category: "Shopping", Confidence: 0.85, Method: models.MethodGemini},
		},
		{
			name:       "unknown category",
			completion: Completion{Text: "Pets", Status: CompletionOK},
			enabled:    true,
			expected:   models.Classification{Category: "Other", Confidence: 0.85, Method: models.MethodGemini},
		},
		{
			name:       "quota exceeded",
			completion: Completion{Status: CompletionQuotaExceeded, Err: errors.New("429")},
			enabled:    true,
			expected:   models.Classification{Category: "Other", Confidence: 0.4, Method: models.MethodFallbackQuotaExceeded},
		},
		{
			name:       "failure",
			completion: Completion{Status: CompletionFailed, Err: errors.New("boom")},
			enabled:    true,
			expected:   models.Classification{Category: "Other", Confidence: 0.4, Method: models.MethodFallbackError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{completion: tt.completion}
			c := newTestCategorizer(t, Dependencies{LLM: llm, Switch: NewSwitch(tt.enabled)})

			cls := c.Classify(context.Background(), "QWE 7781", "", decimal.NewFromInt(250))
			assert.Equal(t, tt.expected, cls)
			if !tt.enabled {
				assert.Empty(t, llm.prompts)
			}
		})
	}
}

func TestCategorizer_NilLLMIsDisabled(t *testing.T) {
	c := newTestCategorizer(t, Dependencies{Switch: NewSwitch(true)})
	assert.False(t, c.LLMEnabled())
	assert.Equal(t, models.MethodFallbackGeminiDisabled, c.Classify(context.Background(), "QWE", "", decimal.Zero).Method)
}

func TestCategorizer_SwitchToggle(t *testing.T) {
	sw := NewSwitch(false)
	llm := &fakeLLM{completion: Completion{Text: "Shopping", Status: CompletionOK}}
	c := newTestCategorizer(t, Dependencies{LLM: llm, Switch: sw})

	assert.Equal(t, models.MethodFallbackGeminiDisabled, c.Classify(context.Background(), "QWE", "", decimal.Zero).Method)
	assert.False(t, sw.Set(true))
	assert.Equal(t, models.MethodGemini, c.Classify(context.Background(), "QWE", "", decimal.Zero).Method)
}

func TestCategorizer_Concurrent(t *testing.T) {
	llm := &fakeLLM{completion: Completion{Text: "Shopping", Status: CompletionOK}}
	c := newTestCategorizer(t, Dependencies{
		Embedder:  profileEmbedder(),
		Merchants: map[string]string{"swiggy": "Food & Dining"},
		LLM:       llm,
		Switch:    NewSwitch(true),
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "Food & Dining", c.Classify(context.Background(), "swiggy", "", decimal.Zero).Category)
			assert.Equal(t, "Transportation", c.Classify(context.Background(), "Uber taxi ride", "", decimal.Zero).Category)
			assert.Equal(t, "Shopping", c.Classify(context.Background(), "QWE", "", decimal.Zero).Category)
		}()
	}
	wg.Wait()
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"Shopping", "Other"}, "AMAZON PAY", decimal.RequireFromString("1234.5"))
	assert.Equal(t, "Classify this transaction into one of these categories:\nShopping, Other\n\n"+
		"Transaction description: AMAZON PAY\nAmount: ₹1,234.50\n\n"+
		"Respond with ONLY the category name, nothing else.", prompt)
}

func TestParseCategoryResponse(t *testing.T) {
	assert.Equal(t, "Shopping", ParseCategoryResponse("Shopping"))
	assert.Equal(t, "Shopping", ParseCategoryResponse("  'Shopping'  "))
	assert.Equal(t, "Travel", ParseCategoryResponse("Travel\r\nIt is a flight"))
	assert.Equal(t, "", ParseCategoryResponse("   "))
}

func TestGeminiClient_RateLimitedCallFailsFast(t *testing.T) {
	c := &GeminiClient{
		limiter: rate.NewLimiter(rate.Every(time.Minute), 1),
		timeout: time.Second,
		logger:  logging.NewMockLogger(),
	}
	require.True(t, c.limiter.Allow())

	start := time.Now()
	completion := c.Complete(context.Background(), "prompt")
	assert.Equal(t, CompletionQuotaExceeded, completion.Status)
	assert.ErrorIs(t, completion.Err, ErrRateLimited)
	assert.Less(t, time.Since(start), time.Second)
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, IsQuotaError(&googleapi.Error{Code: 429}))
	assert.True(t, IsQuotaError(errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED")))
	assert.True(t, IsQuotaError(errors.New("You exceeded your current Quota")))
	assert.True(t, IsQuotaError(errors.New("rate limit hit")))
	assert.False(t, IsQuotaError(errors.New("connection refused")))
	assert.False(t, IsQuotaError(nil))
}

func TestStrategyResults(t *testing.T) {
	var trace StrategyResults
	_, ok := trace.Final()
	assert.False(t, ok)

	trace.add(StrategyResult{Strategy: "keyword", Classification: models.Classification{Confidence: 0.1}})
	trace.add(StrategyResult{Strategy: "vector", Error: errors.New("down")})
	trace.add(StrategyResult{Strategy: "llm", Classification: models.Classification{Category: "Other", Confidence: 0.4}, Accepted: true})

	final, ok := trace.Final()
	assert.True(t, ok)
	assert.Equal(t, "Other", final.Category)
	assert.Equal(t, "keyword:0.10, vector:error, llm:accepted(0.40)", trace.Summary())
	require.Len(t, trace.GetErrors(), 1)
	assert.True(t, strings.HasPrefix(trace.GetErrors()[0].Error(), "vector strategy"))
}
