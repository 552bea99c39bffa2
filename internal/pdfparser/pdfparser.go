// Package pdfparser extracts the raw text of PDF statements.
package pdfparser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/parsererror"
)

// pdfMagic starts every PDF file.
var pdfMagic = []byte("%PDF-")

// Reader pulls text out of uploaded PDF streams.
type Reader struct {
	extractor PDFExtractor
	logger    logging.Logger
}

// NewReader creates a Reader. A nil extractor uses RealPDFExtractor.
func NewReader(extractor PDFExtractor, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if extractor == nil {
		extractor = NewRealPDFExtractor(logger)
	}
	return &Reader{extractor: extractor, logger: logger}
}

// ExtractText spools r to a temporary file and extracts its text. name is
// only used in errors and logs.
func (p *Reader) ExtractText(r io.Reader, name string) (string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(pdfMagic))
	if !bytes.Equal(head, pdfMagic) {
		return "", &parsererror.DataExtractionError{
			FilePath: name,
			Reason:   "not a PDF file",
			Err:      parsererror.ErrInvalidFormat,
		}
	}

	tempFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			p.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.Field{Key: logging.FieldFile, Value: tempFile.Name()})
		}
	}()

	if _, err := io.Copy(tempFile, br); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	text, err := p.extractor.ExtractText(tempFile.Name())
	if err != nil {
		return "", &parsererror.DataExtractionError{
			FilePath: name,
			Reason:   "text extraction failed",
			Err:      err,
		}
	}

	p.logger.Debug("Extracted PDF text",
		logging.Field{Key: logging.FieldFile, Value: name},
		logging.Field{Key: "chars", Value: len(text)})
	return text, nil
}
