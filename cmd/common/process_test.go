package common_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/upi-ledger/cmd/common"
	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProcessor implements common.DocumentProcessor for testing
type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ProcessPDF(ctx context.Context, r io.Reader, filename string) (*ingest.Result, error) {
	args := m.Called(ctx, r, filename)
	result, _ := args.Get(0).(*ingest.Result)
	return result, args.Error(1)
}

func (m *MockProcessor) ProcessCSV(ctx context.Context, r io.Reader, filename string) (*ingest.Result, error) {
	args := m.Called(ctx, r, filename)
	result, _ := args.Get(0).(*ingest.Result)
	return result, args.Error(1)
}

func (m *MockProcessor) ProcessText(ctx context.Context, text, source string) (*ingest.Result, error) {
	args := m.Called(ctx, text, source)
	result, _ := args.Get(0).(*ingest.Result)
	return result, args.Error(1)
}

func sampleResult() *ingest.Result {
	return &ingest.Result{
		UserID: "user-1",
		Phone:  "+919876543210",
		Transactions: []models.EnrichedTransaction{{
			CandidateTransaction: models.CandidateTransaction{
				Description: "SWIGGY ORDER",
				Amount:      decimal.RequireFromString("450"),
			},
			Type:       models.TransactionTypeDebit,
			Merchant:   "Swiggy",
			Category:   "Food & Dining",
			Confidence: 0.9,
			Method:     models.MethodKeyword,
		}},
	}
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestKindForFile(t *testing.T) {
	assert.Equal(t, ingest.KindPDF, common.KindForFile("a/Statement.PDF"))
	assert.Equal(t, ingest.KindCSV, common.KindForFile("export.csv"))
	assert.Equal(t, ingest.KindText, common.KindForFile("notes.txt"))
	assert.Equal(t, ingest.KindText, common.KindForFile("README"))
}

func TestProcessFile_TextToStdout(t *testing.T) {
	input := writeInput(t, "statement.txt", "statement body")
	p := &MockProcessor{}
	p.On("ProcessText", mock.Anything, "statement body", "statement.txt").Return(sampleResult(), nil)

	var out bytes.Buffer
	logger := logging.NewMockLogger()
	result, err := common.ProcessFile(context.Background(), p, input, "", ';', &out, logger)
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.UserID)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date;description;amount;type;merchant;category;confidence;method", lines[0])
	assert.Contains(t, lines[1], "SWIGGY ORDER;450.00;debit;Swiggy;Food & Dining;0.90;keyword")
	assert.True(t, logger.HasEntry("INFO", "Conversion completed successfully!"))
	p.AssertExpectations(t)
}

func TestProcessFile_CSVToFile(t *testing.T) {
	input := writeInput(t, "9876543210.csv", "date,description,amount\n")
	output := filepath.Join(t.TempDir(), "out", "enriched.csv")

	p := &MockProcessor{}
	p.On("ProcessCSV", mock.Anything, mock.Anything, "9876543210.csv").Return(sampleResult(), nil)

	var out bytes.Buffer
	_, err := common.ProcessFile(context.Background(), p, input, output, ',', &out, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Empty(t, out.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Food & Dining")
	p.AssertExpectations(t)
}

func TestProcessFile_PDFError(t *testing.T) {
	input := writeInput(t, "statement.pdf", "%PDF-1.4")
	p := &MockProcessor{}
	p.On("ProcessPDF", mock.Anything, mock.Anything, "statement.pdf").Return(nil, errors.New("boom"))

	_, err := common.ProcessFile(context.Background(), p, input, "", ',', io.Discard, logging.NewMockLogger())
	require.EqualError(t, err, "boom")
	p.AssertExpectations(t)
}

func TestProcessFile_MissingInput(t *testing.T) {
	p := &MockProcessor{}

	_, err := common.ProcessFile(context.Background(), p, "", "", ',', io.Discard, logging.NewMockLogger())
	assert.EqualError(t, err, "input file is required")

	_, err = common.ProcessFile(context.Background(), p, filepath.Join(t.TempDir(), "nope.csv"), "", ',', io.Discard, logging.NewMockLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error opening input file")
	p.AssertNotCalled(t, "ProcessCSV", mock.Anything, mock.Anything, mock.Anything)
}
