package web

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/daddykotex/pdf-edit-bulk/requests"
	"github.com/daddykotex/pdf-edit-bulk/responses"
	"github.com/daddykotex/pdf-edit-bulk/rw"
	"github.com/daddykotex/pdf-edit-bulk/stamp"
	"github.com/daddykotex/pdf-edit-bulk/tabular"
)

var (
	errReadPDF  = errors.New("cannot read PDF")
	errWritePDF = errors.New("cannot write PDF")
)

// statusOf maps a merge pipeline error to an HTTP status and a Message code
func statusOf(err error) (int, int) {
	var maxBytes *http.MaxBytesError
	var docErr *stamp.DocumentError
	switch {
	case errors.Is(err, rw.ErrTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, responses.CodeTooLarge
	case errors.Is(err, requests.ErrNotMultipart),
		errors.Is(err, requests.ErrMissingFile),
		errors.Is(err, requests.ErrMissingField),
		errors.Is(err, stamp.ErrInputMissing):
		return http.StatusBadRequest, responses.CodeBadForm
	case errors.Is(err, stamp.ErrMalformedRecord):
		return http.StatusBadRequest, responses.CodeBadRecord
	case errors.Is(err, tabular.ErrNoHeader),
		errors.Is(err, tabular.ErrInvalidDelimiter),
		errors.Is(err, tabular.ErrMalformed):
		return http.StatusBadRequest, responses.CodeBadCSV
	case errors.Is(err, errReadPDF):
		return http.StatusUnprocessableEntity, responses.CodeBadPDF
	case errors.As(err, &docErr) && docErr.Op == stamp.OpReadPage:
		return http.StatusUnprocessableEntity, responses.CodeBadPDF
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, responses.CodeMergeFailed
	}
	return http.StatusInternalServerError, responses.CodeMergeFailed
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR][WEB] merge failed: %v", err)
		msg = "merge failed"
	} else {
		log.Printf("[WARN][WEB] rejected (%d): %v", status, err)
	}
	responses.WriteErrorJSON(w, status, code, msg)
}
