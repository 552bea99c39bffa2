package pdfparser

// PDFExtractor reads the text of a PDF file on disk.
type PDFExtractor interface {
	ExtractText(pdfPath string) (string, error)
}

// MockPDFExtractor returns canned text and records the paths it was given.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	Calls    []string
}

// NewMockPDFExtractor returns a MockPDFExtractor answering with text or err.
func NewMockPDFExtractor(text string, err error) *MockPDFExtractor {
	return &MockPDFExtractor{MockText: text, MockErr: err}
}

// ExtractText records pdfPath and returns the canned answer.
func (e *MockPDFExtractor) ExtractText(pdfPath string) (string, error) {
	e.Calls = append(e.Calls, pdfPath)
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
