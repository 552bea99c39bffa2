// Package api serves the upload, classification and admin endpoints over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/metrics"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/textutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
)

// DocumentProcessor ingests uploaded statements.
type DocumentProcessor interface {
	ProcessPDF(ctx context.Context, r io.Reader, filename string) (*ingest.Result, error)
	ProcessCSV(ctx context.Context, r io.Reader, filename string) (*ingest.Result, error)
}

// Classifier categorizes single descriptions.
type Classifier interface {
	Classify(ctx context.Context, description, userID string, amount decimal.Decimal) models.Classification
	Categories() []string
}

// LLMSwitch is the runtime on/off control of the LLM tier.
type LLMSwitch interface {
	Enabled() bool
	Set(enabled bool) bool
}

// Options configures the HTTP layer.
type Options struct {
	// MaxFileSize is the largest accepted upload, in bytes.
	MaxFileSize int64
	// LLMAvailable is false when no LLM client is configured; the switch
	// then cannot be turned on.
	LLMAvailable bool
	// Version is reported by the health endpoint.
	Version string
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	documents  DocumentProcessor
	classifier Classifier
	llm        LLMSwitch
	metrics    *metrics.Metrics
	opts       Options
	logger     logging.Logger
}

// NewHandler creates a Handler. metrics may be nil.
func NewHandler(documents DocumentProcessor, classifier Classifier, llm LLMSwitch, m *metrics.Metrics, opts Options, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = 10 * 1024 * 1024
	}
	return &Handler{
		documents:  documents,
		classifier: classifier,
		llm:        llm,
		metrics:    m,
		opts:       opts,
		logger:     logger,
	}
}

// NewApp builds the fiber application with every route registered.
func (h *Handler) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "upi-ledger",
		BodyLimit:             int(h.opts.MaxFileSize) + 1024*1024,
		DisableStartupMessage: true,
		ReadTimeout:           time.Minute,
		WriteTimeout:          5 * time.Minute,
	})
	app.Use(recover.New())
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/health", h.handleHealth)
	api.Post("/upload/pdf", h.handleUpload(ingest.KindPDF))
	api.Post("/upload/csv", h.handleUpload(ingest.KindCSV))
	api.Post("/classify", h.handleClassify)
	api.Get("/admin/llm", h.handleGetLLM)
	api.Put("/admin/llm", h.handleSetLLM)

	if h.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))
	}
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"version":     h.opts.Version,
		"llm_enabled": h.llmEnabled(),
		"categories":  len(h.classifier.Categories()),
	})
}

// UploadResponse is the JSON body returned for a processed statement.
type UploadResponse struct {
	UserID           string                       `json:"user_id"`
	Phone            string                       `json:"phone"`
	TransactionCount int                          `json:"transaction_count"`
	Stored           int                          `json:"stored"`
	Message          string                       `json:"message"`
	Transactions     []models.EnrichedTransaction `json:"transactions"`
}

func (h *Handler) handleUpload(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header, err := c.FormFile("file")
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
		}
		if header.Size > h.opts.MaxFileSize {
			return errorResponse(c, fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large: %d bytes (limit %d)", header.Size, h.opts.MaxFileSize))
		}
		if !strings.HasSuffix(strings.ToLower(header.Filename), "."+kind) {
			return errorResponse(c, fiber.StatusBadRequest,
				fmt.Sprintf("Only %s files are supported.", strings.ToUpper(kind)))
		}

		file, err := header.Open()
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file.")
		}
		defer func() {
			if err := file.Close(); err != nil {
				h.logger.WithError(err).Warn("Failed to close uploaded file")
			}
		}()

		var result *ingest.Result
		if kind == ingest.KindPDF {
			result, err = h.documents.ProcessPDF(c.UserContext(), file, header.Filename)
		} else {
			result, err = h.documents.ProcessCSV(c.UserContext(), file, header.Filename)
		}
		if err != nil {
			if ingest.IsDocumentError(err) {
				return errorResponse(c, fiber.StatusBadRequest, err.Error())
			}
			return errorResponse(c, fiber.StatusInternalServerError,
				fmt.Sprintf("Error processing %s", strings.ToUpper(kind)))
		}

		return c.JSON(UploadResponse{
			UserID:           result.UserID,
			Phone:            result.Phone,
			TransactionCount: len(result.Transactions),
			Stored:           result.Stored,
			Message:          fmt.Sprintf("Successfully processed %d transactions", len(result.Transactions)),
			Transactions:     result.Transactions,
		})
	}
}

// ClassifyRequest is the body of POST /api/classify.
type ClassifyRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	UserID      string          `json:"user_id"`
}

// ClassifyResponse is the classification of one description.
type ClassifyResponse struct {
	models.Classification
	Merchant string                 `json:"merchant,omitempty"`
	Type     models.TransactionType `json:"type"`
}

func (h *Handler) handleClassify(c *fiber.Ctx) error {
	var req ClassifyRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid JSON body.")
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return errorResponse(c, fiber.StatusBadRequest, "description is required")
	}

	cls := h.classifier.Classify(c.UserContext(), req.Description, req.UserID, req.Amount.Abs())
	h.metrics.ObserveClassification(cls.Method)

	return c.JSON(ClassifyResponse{
		Classification: cls,
		Merchant:       textutils.ExtractMerchant(req.Description),
		Type:           textutils.DetermineType(req.Description),
	})
}

type llmState struct {
	Enabled   *bool `json:"enabled"`
	Available bool  `json:"available"`
}

func (h *Handler) handleGetLLM(c *fiber.Ctx) error {
	enabled := h.llmEnabled()
	return c.JSON(llmState{Enabled: &enabled, Available: h.opts.LLMAvailable})
}

func (h *Handler) handleSetLLM(c *fiber.Ctx) error {
	var req llmState
	if err := c.BodyParser(&req); err != nil || req.Enabled == nil {
		return errorResponse(c, fiber.StatusBadRequest, `Body must be {"enabled": true|false}.`)
	}
	if h.llm == nil || (*req.Enabled && !h.opts.LLMAvailable) {
		return errorResponse(c, fiber.StatusConflict, "No LLM client is configured.")
	}

	previous := h.llm.Set(*req.Enabled)
	h.logger.Info("LLM categorization switched",
		logging.Field{Key: "enabled", Value: *req.Enabled},
		logging.Field{Key: "previous", Value: previous})
	return h.handleGetLLM(c)
}

func (h *Handler) llmEnabled() bool {
	return h.llm != nil && h.opts.LLMAvailable && h.llm.Enabled()
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}
