// Package common provides the CSV reading and writing shared by the CLI and the API.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"

	"github.com/gocarina/gocsv"
	"golang.org/x/net/html/charset"
)

// DefaultDelimiter is used when none is configured.
const DefaultDelimiter = ','

// candidateDelimiters are tried, in order, when sniffing a header line.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// StatementRow is one row of an uploaded CSV statement.
// Several header spellings are accepted for each column.
type StatementRow struct {
	Date    string `csv:"date"`
	DateCap string `csv:"Date"`

	Description    string `csv:"description"`
	DescriptionCap string `csv:"Description"`
	Narration      string `csv:"narration"`
	NarrationCap   string `csv:"Narration"`

	Amount    string `csv:"amount"`
	AmountCap string `csv:"Amount"`
	Debit     string `csv:"debit"`
	DebitCap  string `csv:"Debit"`
}

// DateText returns the first non-empty date column.
func (r StatementRow) DateText() string {
	return firstNonEmpty(r.Date, r.DateCap)
}

// DescriptionText returns the first non-empty description column.
func (r StatementRow) DescriptionText() string {
	return firstNonEmpty(r.Description, r.DescriptionCap, r.Narration, r.NarrationCap)
}

// AmountText returns the first non-empty amount column.
func (r StatementRow) AmountText() string {
	return firstNonEmpty(r.Amount, r.AmountCap, r.Debit, r.DebitCap)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// DecodeText reads r fully and converts it to UTF-8. The encoding is taken
// from a BOM when present; invalid UTF-8 is read as windows-1252. Blank input
// decodes to "" without error.
func DecodeText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("error reading CSV data: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}
	decoded, err := charset.NewReader(bytes.NewReader(data), "text/csv")
	if err != nil {
		return "", fmt.Errorf("error detecting CSV encoding: %w", err)
	}
	text, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("error decoding CSV data: %w", err)
	}
	return strings.TrimPrefix(string(text), "\ufeff"), nil
}

// DetectDelimiter picks the candidate delimiter occurring most often in the
// first line of text, falling back to DefaultDelimiter.
func DetectDelimiter(text string) rune {
	header := text
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		header = text[:i]
	}
	best, bestCount := rune(DefaultDelimiter), 0
	for _, d := range candidateDelimiters {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// ParseStatementRows unmarshals CSV text into rows. A zero delimiter is
// detected from the header line.
func ParseStatementRows(text string, delimiter rune) ([]StatementRow, error) {
	if delimiter == 0 {
		delimiter = DetectDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows []StatementRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	return rows, nil
}

// ExportRow is the flat CSV form of an enriched transaction.
type ExportRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Type        string `csv:"type"`
	Merchant    string `csv:"merchant"`
	Category    string `csv:"category"`
	Confidence  string `csv:"confidence"`
	Method      string `csv:"method"`
}

// ToExportRows flattens transactions for CSV output.
func ToExportRows(transactions []models.EnrichedTransaction) []ExportRow {
	rows := make([]ExportRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = ExportRow{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			Type:        string(tx.Type),
			Merchant:    tx.Merchant,
			Category:    tx.Category,
			Confidence:  fmt.Sprintf("%.2f", tx.Confidence),
			Method:      string(tx.Method),
		}
	}
	return rows
}

// WriteTransactions writes transactions as CSV with a header row.
func WriteTransactions(w io.Writer, transactions []models.EnrichedTransaction, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	rows := ToExportRows(transactions)
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTransactionsToCSV writes transactions to csvFile, creating its directory.
func WriteTransactionsToCSV(transactions []models.EnrichedTransaction, csvFile string, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile) // #nosec G304 -- CLI tool writes to user-provided path
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteTransactions(file, transactions, delimiter); err != nil {
		logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return err
	}

	logger.Info("Successfully wrote transactions to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delimiter)})
	return nil
}
