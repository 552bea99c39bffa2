package pdfparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementText = "Statement for +91 98765 43210\n12/05/2024 SWIGGY ORDER 450.00\n"

func TestReader_ExtractText(t *testing.T) {
	mock := NewMockPDFExtractor(statementText, nil)
	reader := NewReader(mock, logging.NewMockLogger())

	text, err := reader.ExtractText(strings.NewReader("%PDF-1.7\nbinary"), "statement.pdf")
	require.NoError(t, err)
	assert.Equal(t, statementText, text)

	require.Len(t, mock.Calls, 1)
	_, statErr := os.Stat(mock.Calls[0])
	assert.True(t, os.IsNotExist(statErr), "temporary file should be removed")
}

func TestReader_RejectsNonPDF(t *testing.T) {
	mock := NewMockPDFExtractor(statementText, nil)
	reader := NewReader(mock, logging.NewMockLogger())

	_, err := reader.ExtractText(strings.NewReader("date,description,amount"), "statement.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)
	assert.Empty(t, mock.Calls)

	_, err = reader.ExtractText(strings.NewReader(""), "empty.pdf")
	assert.ErrorIs(t, err, parsererror.ErrInvalidFormat)
}

func TestReader_ExtractionFailure(t *testing.T) {
	reader := NewReader(NewMockPDFExtractor("", errors.New("encrypted")), logging.NewMockLogger())

	_, err := reader.ExtractText(strings.NewReader("%PDF-1.4"), "locked.pdf")
	require.Error(t, err)

	var extractionErr *parsererror.DataExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, "locked.pdf", extractionErr.FilePath)
	assert.Contains(t, err.Error(), "encrypted")
}

func TestRealPDFExtractor_FallsBackToPdftotext(t *testing.T) {
	original := extractTextFromPDF
	t.Cleanup(func() { extractTextFromPDF = original })

	var called string
	extractTextFromPDF = func(pdfFile string) (string, error) {
		called = pdfFile
		return statementText, nil
	}

	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\nnot really a pdf"), 0600))

	text, err := NewRealPDFExtractor(logging.NewMockLogger()).ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, statementText, text)
	assert.Equal(t, path, called)
}

func TestRealPDFExtractor_BothFail(t *testing.T) {
	original := extractTextFromPDF
	t.Cleanup(func() { extractTextFromPDF = original })
	extractTextFromPDF = func(string) (string, error) {
		return "", errors.New("pdftotext not installed")
	}

	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))

	_, err := NewRealPDFExtractor(nil).ExtractText(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext")
}
