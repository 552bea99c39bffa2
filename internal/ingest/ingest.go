// Package ingest turns uploaded statements into categorized transactions for
// the statement owner.
package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"fjacquet/upi-ledger/internal/common"
	"fjacquet/upi-ledger/internal/currencyutils"
	"fjacquet/upi-ledger/internal/dateutils"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/metrics"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/parsererror"
	"fjacquet/upi-ledger/internal/statement"
	"fjacquet/upi-ledger/internal/textutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document kinds, used in errors and metric labels.
const (
	KindPDF  = "pdf"
	KindCSV  = "csv"
	KindText = "text"
)

// Classifier assigns a category to one description.
type Classifier interface {
	Classify(ctx context.Context, description, userID string, amount decimal.Decimal) models.Classification
}

// MemoryWriter persists enriched transactions for later similarity lookups.
type MemoryWriter interface {
	StoreBatch(ctx context.Context, userID string, txs []models.EnrichedTransaction) int
}

// TextExtractor pulls the text out of a binary document.
type TextExtractor interface {
	ExtractText(r io.Reader, name string) (string, error)
}

// Config tunes document handling.
type Config struct {
	// PhoneScanLimit is how many leading characters of a CSV are searched for the phone number.
	PhoneScanLimit int
	// CSVDelimiter is the CSV field separator; zero detects it from the header.
	CSVDelimiter rune
	// Clock supplies "now" for undated rows.
	Clock dateutils.Clock
}

// Dependencies are the collaborators of a Service. Memories, PDF and Metrics are optional.
type Dependencies struct {
	Classifier Classifier
	Memories   MemoryWriter
	PDF        TextExtractor
	Metrics    *metrics.Metrics
}

// Result is the outcome of processing one document.
type Result struct {
	Source       string                       `json:"source"`
	Kind         string                       `json:"kind"`
	UserID       string                       `json:"user_id"`
	Phone        string                       `json:"phone"`
	Transactions []models.EnrichedTransaction `json:"transactions"`
	Stored       int                          `json:"stored"`
	Stats        models.CategorizationStats   `json:"-"`
}

// Service runs the ingest pipeline. It is safe for concurrent use.
type Service struct {
	parser *statement.Parser
	deps   Dependencies
	cfg    Config
	clock  dateutils.Clock
	logger logging.Logger
}

// NewService creates a Service.
func NewService(deps Dependencies, cfg Config, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if cfg.PhoneScanLimit <= 0 {
		cfg.PhoneScanLimit = 1000
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		parser: statement.NewParser(logger, statement.WithClock(clock)),
		deps:   deps,
		cfg:    cfg,
		clock:  clock,
		logger: logger,
	}
}

// UserID derives the stable user identifier of a normalized phone number.
func UserID(phone string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(phone)).String()
}

// ProcessText ingests plain statement text.
func (s *Service) ProcessText(ctx context.Context, text, source string) (*Result, error) {
	start := time.Now()
	result, err := s.processStatement(ctx, KindText, source, text)
	s.observe(KindText, start, result, err)
	return result, err
}

// ProcessPDF extracts the text of a PDF statement and ingests it.
func (s *Service) ProcessPDF(ctx context.Context, r io.Reader, filename string) (*Result, error) {
	start := time.Now()
	result, err := s.processPDF(ctx, r, filename)
	s.observe(KindPDF, start, result, err)
	return result, err
}

func (s *Service) processPDF(ctx context.Context, r io.Reader, filename string) (*Result, error) {
	if s.deps.PDF == nil {
		return nil, documentError(KindPDF, filename, parsererror.ErrInvalidFormat)
	}
	text, err := s.deps.PDF.ExtractText(r, filename)
	if err != nil {
		var extractionErr *parsererror.DataExtractionError
		if errors.As(err, &extractionErr) {
			return nil, documentError(KindPDF, filename, err)
		}
		return nil, err
	}
	return s.processStatement(ctx, KindPDF, filename, text)
}

func (s *Service) processStatement(ctx context.Context, kind, source, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, documentError(kind, source, parsererror.ErrEmptyDocument)
	}

	phone, ok := textutils.ExtractPhone(text)
	if !ok {
		return nil, documentError(kind, source, parsererror.ErrPhoneNotFound)
	}

	candidates := s.parser.Parse(text)
	if len(candidates) == 0 {
		return nil, documentError(kind, source, parsererror.ErrNoTransactions)
	}

	return s.finish(ctx, kind, source, phone, candidates), nil
}

// ProcessCSV ingests a CSV statement. The phone number is searched in the
// first PhoneScanLimit characters, then in the file name.
func (s *Service) ProcessCSV(ctx context.Context, r io.Reader, filename string) (*Result, error) {
	start := time.Now()
	result, err := s.processCSV(ctx, r, filename)
	s.observe(KindCSV, start, result, err)
	return result, err
}

func (s *Service) processCSV(ctx context.Context, r io.Reader, filename string) (*Result, error) {
	text, err := common.DecodeText(r)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, documentError(KindCSV, filename, parsererror.ErrEmptyDocument)
	}

	phone, ok := textutils.ExtractPhone(textutils.Prefix(text, s.cfg.PhoneScanLimit))
	if !ok {
		phone, ok = textutils.ExtractPhone(filename)
	}
	if !ok {
		return nil, documentError(KindCSV, filename, parsererror.ErrPhoneNotFound)
	}

	rows, err := common.ParseStatementRows(text, s.cfg.CSVDelimiter)
	if err != nil {
		return nil, documentError(KindCSV, filename, err)
	}

	candidates := s.rowsToCandidates(rows)
	if len(candidates) == 0 {
		return nil, documentError(KindCSV, filename, parsererror.ErrNoTransactions)
	}

	return s.finish(ctx, KindCSV, filename, phone, candidates), nil
}

// rowsToCandidates skips rows without a description or with a zero amount.
func (s *Service) rowsToCandidates(rows []common.StatementRow) []models.CandidateTransaction {
	candidates := make([]models.CandidateTransaction, 0, len(rows))
	for i, row := range rows {
		description := row.DescriptionText()
		amount := currencyutils.ParseAmount(row.AmountText())
		if description == "" || !currencyutils.IsPositive(amount) {
			s.logger.Debug("Skipping CSV row",
				logging.Field{Key: "row", Value: i + 2},
				logging.Field{Key: logging.FieldDescription, Value: description})
			continue
		}
		candidates = append(candidates, models.CandidateTransaction{
			Date:        dateutils.ParseStatementDate(row.DateText(), s.clock),
			Description: description,
			Amount:      amount,
			RawText:     description,
		})
	}
	return candidates
}

// finish enriches candidates in order and stores them for the user.
func (s *Service) finish(ctx context.Context, kind, source, phone string, candidates []models.CandidateTransaction) *Result {
	userID := UserID(phone)
	result := &Result{
		Source:       source,
		Kind:         kind,
		UserID:       userID,
		Phone:        phone,
		Transactions: make([]models.EnrichedTransaction, 0, len(candidates)),
	}

	for _, c := range candidates {
		var cls models.Classification
		if s.deps.Classifier != nil {
			cls = s.deps.Classifier.Classify(ctx, c.Description, userID, c.Amount)
		} else {
			cls = models.Classification{Category: models.CategoryOther, Method: models.MethodFallbackGeminiDisabled}
		}
		result.Stats.Record(cls.Method)
		s.deps.Metrics.ObserveClassification(cls.Method)

		result.Transactions = append(result.Transactions, models.Enrich(
			c,
			textutils.DetermineType(c.Description),
			textutils.ExtractMerchant(c.Description),
			cls,
		))
	}

	if s.deps.Memories != nil {
		result.Stored = s.deps.Memories.StoreBatch(ctx, userID, result.Transactions)
	}

	result.Stats.LogSummary(s.logger, source)
	s.logger.Info("Processed statement",
		logging.Field{Key: logging.FieldSource, Value: source},
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: "stored", Value: result.Stored})
	return result
}

func (s *Service) observe(kind string, start time.Time, result *Result, err error) {
	status := metrics.StatusOK
	switch {
	case IsDocumentError(err):
		status = metrics.StatusReject
		s.logger.WithError(err).Warn("Rejected document",
			logging.Field{Key: "kind", Value: kind})
	case err != nil:
		status = metrics.StatusError
		s.logger.WithError(err).Error("Failed to process document",
			logging.Field{Key: "kind", Value: kind})
	}
	s.deps.Metrics.ObserveDocument(kind, status, time.Since(start))
	if result != nil {
		s.deps.Metrics.AddTransactions(kind, len(result.Transactions))
	}
}

func documentError(kind, source string, err error) error {
	return &parsererror.DocumentError{Source: source, Kind: kind, Err: err}
}
