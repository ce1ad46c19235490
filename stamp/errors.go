package stamp

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is matched by every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInputMissing is returned before any page is processed
	// when the document or the table input is absent.
	ErrInputMissing = errors.New("input missing")
)

// MalformedRecordError names the data row whose quantity could not be used.
// Row is 1-based and counts data rows only (a header line is not a row).
type MalformedRecordError struct {
	Row   int
	Field string
	Value string
	Err   error // strconv error, nil when the field is absent or negative
}

func (e *MalformedRecordError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("malformed record: row %d: field %q: %q: %v", e.Row, e.Field, e.Value, e.Err)
	case e.Value == "":
		return fmt.Sprintf("malformed record: row %d: field %q is missing", e.Row, e.Field)
	default:
		return fmt.Sprintf("malformed record: row %d: field %q: %q is not a non-negative integer", e.Row, e.Field, e.Value)
	}
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// DocumentError operations
const (
	OpReadPage  = "read page"
	OpDrawLabel = "draw label"
)

// DocumentError wraps a failure of the document codec.
// Page is 1-based, 0 when the failure is not tied to a page.
type DocumentError struct {
	Op   string
	Page int
	Err  error
}

func (e *DocumentError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("document: %s on page %d: %v", e.Op, e.Page, e.Err)
	}
	return fmt.Sprintf("document: %s: %v", e.Op, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func wrapPageError(op string, page int, err error) error {
	if err == nil {
		return nil
	}
	return &DocumentError{Op: op, Page: page, Err: err}
}
