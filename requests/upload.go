package requests

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/daddykotex/pdf-edit-bulk/fields"
	"github.com/daddykotex/pdf-edit-bulk/rw"
)

// Form field names of the upload form
const (
	FieldPrefix    = "prefix"
	FieldProject   = "project"
	FieldDelimiter = "delimiter"
	FilePDF        = "pdf"
	FileCSV        = "csv"
)

var (
	ErrNotMultipart = errors.New("request is not multipart/form-data")
	ErrMissingFile  = errors.New("missing file")
	ErrMissingField = errors.New("missing field")
)

// Upload is a decoded merge request
type Upload struct {
	Prefix    string
	Project   string
	Delimiter string // raw form value, see tabular.ParseDelimiter
	PDF       []byte
	CSV       []byte
	PDFName   string
	CSVName   string
}

// ParseUpload decodes the multipart upload form. maxBytes bounds each file.
// Errors wrap ErrNotMultipart, ErrMissingFile, ErrMissingField or rw.ErrTooLarge.
func ParseUpload(r *http.Request, maxBytes int64) (*Upload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, ErrNotMultipart
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMultipart, err)
	}
	values := fields.Fields(r.MultipartForm.Value)

	u := &Upload{
		Prefix:    fields.Extract(values, FieldPrefix),
		Project:   strings.TrimSpace(fields.Extract(values, FieldProject)),
		Delimiter: fields.Extract(values, FieldDelimiter),
	}
	if u.Project == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingField, FieldProject)
	}

	var err error
	if u.PDF, u.PDFName, err = readFormFile(r.MultipartForm, FilePDF, maxBytes); err != nil {
		return nil, err
	}
	if u.CSV, u.CSVName, err = readFormFile(r.MultipartForm, FileCSV, maxBytes); err != nil {
		return nil, err
	}
	return u, nil
}

func readFormFile(form *multipart.Form, name string, maxBytes int64) ([]byte, string, error) {
	headers := form.File[name]
	if len(headers) == 0 || headers[0].Size == 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrMissingFile, name)
	}
	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	b, err := rw.ReadAllLimit(f, maxBytes)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", name, err)
	}
	return b, fh.Filename, nil
}
