// Package parsererror holds the typed errors returned by document ingestion.
package parsererror

import (
	"errors"
	"fmt"
)

// Document-level outcomes. Callers match them with errors.Is.
var (
	ErrEmptyDocument  = errors.New("document contains no text")
	ErrPhoneNotFound  = errors.New("phone number not found in document")
	ErrNoTransactions = errors.New("no transactions found in document")
	ErrInvalidFormat  = errors.New("unsupported document format")
)

// DocumentError ties a document-level failure to the document it came from.
type DocumentError struct {
	Source string
	Kind   string // "pdf", "csv" or "text"
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s document '%s': %v", e.Kind, e.Source, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// ParseError represents a fragment that could not be parsed
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CategorizationError records which tier failed for a description.
// It is logged, never returned from classification.
type CategorizationError struct {
	Transaction string
	Strategy    string
	Err         error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed for %s using %s: %v",
		e.Transaction, e.Strategy, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// DataExtractionError represents text that could not be pulled out of a file,
// even if the file format itself might be valid.
type DataExtractionError struct {
	FilePath string
	Reason   string
	Err      error
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in file '%s': %s: %v", e.FilePath, e.Reason, e.Err)
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}
