// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/logging"

	ledgercsv "fjacquet/upi-ledger/internal/common"
)

// DocumentProcessor is the part of the ingest service the commands use.
type DocumentProcessor interface {
	ProcessPDF(ctx context.Context, r io.Reader, filename string) (*ingest.Result, error)
	ProcessCSV(ctx context.Context, r io.Reader, filename string) (*ingest.Result, error)
	ProcessText(ctx context.Context, text, source string) (*ingest.Result, error)
}

// KindForFile picks the document kind from the file extension. Anything that
// is not a PDF or CSV is read as plain text.
func KindForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ingest.KindPDF
	case ".csv":
		return ingest.KindCSV
	default:
		return ingest.KindText
	}
}

// ProcessDocument ingests one statement file, choosing the pipeline by extension.
func ProcessDocument(ctx context.Context, p DocumentProcessor, inputFile string, log logging.Logger) (*ingest.Result, error) {
	if inputFile == "" {
		return nil, fmt.Errorf("input file is required")
	}

	file, err := os.Open(inputFile) // #nosec G304 -- CLI tool reads user-provided path
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close input file")
		}
	}()

	name := filepath.Base(inputFile)
	kind := KindForFile(inputFile)
	log.Info("Processing statement",
		logging.Field{Key: logging.FieldInputFile, Value: inputFile},
		logging.Field{Key: logging.FieldSource, Value: kind})

	switch kind {
	case ingest.KindPDF:
		return p.ProcessPDF(ctx, file, name)
	case ingest.KindCSV:
		return p.ProcessCSV(ctx, file, name)
	default:
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("error reading input file: %w", err)
		}
		return p.ProcessText(ctx, string(data), name)
	}
}

// ProcessFile ingests inputFile and writes the enriched transactions to
// outputFile, or to stdout when outputFile is empty.
func ProcessFile(ctx context.Context, p DocumentProcessor, inputFile, outputFile string, delimiter rune, stdout io.Writer, log logging.Logger) (*ingest.Result, error) {
	result, err := ProcessDocument(ctx, p, inputFile, log)
	if err != nil {
		return nil, err
	}

	if outputFile == "" {
		if err := ledgercsv.WriteTransactions(stdout, result.Transactions, delimiter); err != nil {
			return nil, err
		}
	} else if err := ledgercsv.WriteTransactionsToCSV(result.Transactions, outputFile, delimiter, log); err != nil {
		return nil, err
	}

	log.Info("Conversion completed successfully!",
		logging.Field{Key: logging.FieldUserID, Value: result.UserID},
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile})
	return result, nil
}
