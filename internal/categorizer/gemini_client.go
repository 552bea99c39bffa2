package categorizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fjacquet/upi-ledger/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrRateLimited is reported when the local request budget is used up.
var ErrRateLimited = errors.New("gemini request budget exhausted")

// GeminiConfig holds the settings of a GeminiClient.
type GeminiConfig struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	Timeout           time.Duration
}

// GeminiClient is an LLMClient backed by the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	limiter *rate.Limiter
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClient connects to Gemini. Close must be called when done.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger logging.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0)
	model.SetCandidateCount(1)

	logger.Info("Gemini client ready",
		logging.Field{Key: logging.FieldProvider, Value: cfg.Model},
		logging.Field{Key: "requests_per_minute", Value: cfg.RequestsPerMinute})

	return &GeminiClient{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Complete sends the prompt and classifies the outcome. The local rate
// limiter counts as a quota: when no request slot is free the call returns
// QuotaExceeded at once instead of waiting.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) Completion {
	if !c.limiter.Allow() {
		return Completion{Status: CompletionQuotaExceeded, Err: ErrRateLimited}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		status := CompletionFailed
		if IsQuotaError(err) {
			status = CompletionQuotaExceeded
		}
		return Completion{Status: status, Err: err}
	}

	text := responseText(resp)
	c.logger.Debug("Gemini response received",
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()})
	if text == "" {
		return Completion{Status: CompletionFailed, Err: errors.New("empty response from gemini")}
	}
	return Completion{Text: text, Status: CompletionOK}
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// IsQuotaError reports whether err means the provider refused the call for
// quota or rate reasons.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "quota", "rate limit", "resource_exhausted", "resource exhausted"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
