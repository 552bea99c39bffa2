package pdfparser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"fjacquet/upi-ledger/internal/logging"

	"github.com/ledongthuc/pdf"
)

// RealPDFExtractor reads the PDF with a pure Go parser and falls back to the
// pdftotext command when that yields nothing.
type RealPDFExtractor struct {
	logger logging.Logger
}

// NewRealPDFExtractor creates a new RealPDFExtractor instance.
func NewRealPDFExtractor(logger logging.Logger) *RealPDFExtractor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RealPDFExtractor{logger: logger}
}

// ExtractText returns the text of every page, one line per text row.
func (e *RealPDFExtractor) ExtractText(pdfPath string) (string, error) {
	text, err := extractRows(pdfPath)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if err != nil {
		e.logger.WithError(err).Debug("Go PDF reader failed, trying pdftotext",
			logging.Field{Key: logging.FieldFile, Value: pdfPath})
	}

	fallback, fbErr := extractTextFromPDF(pdfPath)
	if fbErr != nil {
		if err != nil {
			return "", fmt.Errorf("%w (pdftotext: %v)", err, fbErr)
		}
		// The reader worked but found no text; an empty result is still a result.
		e.logger.WithError(fbErr).Debug("pdftotext unavailable")
		return text, nil
	}
	return fallback, nil
}

// extractRows joins the text runs of each row, inserting a space where runs
// are visibly apart.
func extractRows(pdfPath string) (text string, err error) {
	defer func() {
		// The reader panics on some malformed files.
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		for _, row := range rows {
			var prev *pdf.Text
			for j := range row.Content {
				t := &row.Content[j]
				if prev != nil && t.X-(prev.X+prev.W) > prev.FontSize*0.2 {
					b.WriteByte(' ')
				}
				b.WriteString(t.S)
				prev = t
			}
			b.WriteByte('\n')
		}
	}
	if strings.TrimSpace(b.String()) != "" {
		return b.String(), nil
	}

	// Some generators emit text the row grouping cannot place.
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractTextFromPDF runs pdftotext. It is a variable so tests can replace it.
var extractTextFromPDF = func(pdfFile string) (string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return "", fmt.Errorf("pdftotext not installed: %w", err)
	}

	out, err := os.CreateTemp(filepath.Dir(pdfFile), "*.txt")
	if err != nil {
		return "", fmt.Errorf("error creating text output file: %w", err)
	}
	outPath := out.Name()
	_ = out.Close()
	defer func() { _ = os.Remove(outPath) }()

	cmd := exec.Command("pdftotext", "-layout", pdfFile, outPath) // #nosec G204 -- fixed binary, file paths only
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext: %w", err)
	}

	output, err := os.ReadFile(outPath) // #nosec G304 -- temp file created above
	if err != nil {
		return "", fmt.Errorf("error reading extracted text: %w", err)
	}
	return string(output), nil
}
