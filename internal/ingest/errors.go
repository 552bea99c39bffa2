package ingest

import (
	"errors"

	"fjacquet/upi-ledger/internal/parsererror"
)

// IsDocumentError reports whether err is a problem with the uploaded document
// itself rather than with the service.
func IsDocumentError(err error) bool {
	var docErr *parsererror.DocumentError
	return errors.As(err, &docErr)
}
